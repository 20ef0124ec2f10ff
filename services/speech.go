package services

import (
	"strings"
)

// VoiceSettings is a browser TTS preset
type VoiceSettings struct {
	Rate        float64 `json:"rate"`
	Pitch       float64 `json:"pitch"`
	Volume      float64 `json:"volume"`
	Voice       string  `json:"voice"`
	Description string  `json:"description"`
}

// VoiceInstructions tells a browser client how to speak a text
type VoiceInstructions struct {
	Text              string        `json:"text"`
	Chunks            []string      `json:"chunks"`
	VoiceSettings     VoiceSettings `json:"voiceSettings"`
	EstimatedDuration float64       `json:"estimatedDuration"` // seconds
}

// Voice style presets; immutable configuration
var voicePresets = map[string]VoiceSettings{
	"professional": {
		Rate:        0.9,
		Pitch:       1.0,
		Volume:      0.8,
		Voice:       "en-US",
		Description: "Clear, professional tone",
	},
	"friendly": {
		Rate:        1.0,
		Pitch:       1.2,
		Volume:      0.9,
		Voice:       "en-US",
		Description: "Warm, friendly tone",
	},
	"confident": {
		Rate:        0.8,
		Pitch:       0.9,
		Volume:      1.0,
		Voice:       "en-US",
		Description: "Strong, confident tone",
	},
	"conversational": {
		Rate:        1.1,
		Pitch:       1.1,
		Volume:      0.8,
		Voice:       "en-US",
		Description: "Natural, conversational tone",
	},
}

// maxChunkLength is the chunk cap for browser TTS engines
const maxChunkLength = 200

// wordsPerMinute is the assumed average speaking rate
const wordsPerMinute = 150.0

// GetVoicePresets returns all presets keyed by style name
func GetVoicePresets() map[string]VoiceSettings {
	out := make(map[string]VoiceSettings, len(voicePresets))
	for name, settings := range voicePresets {
		out[name] = settings
	}
	return out
}

// GetVoiceInstructions prepares text for browser speech synthesis,
// selecting a preset (professional by default), chunking the text at
// sentence boundaries and estimating the speech duration.
func GetVoiceInstructions(text, voicePreference string) VoiceInstructions {
	settings, ok := voicePresets[voicePreference]
	if !ok {
		settings = voicePresets["professional"]
	}

	return VoiceInstructions{
		Text:              text,
		Chunks:            SplitTextIntoChunks(text, maxChunkLength),
		VoiceSettings:     settings,
		EstimatedDuration: EstimateSpeechDuration(text),
	}
}

// SplitTextIntoChunks splits text at sentence boundaries into chunks
// shorter than maxLength (browser TTS engines choke on long inputs)
func SplitTextIntoChunks(text string, maxLength int) []string {
	sentences := []string{}
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	chunks := []string{}
	current := ""
	for _, sentence := range sentences {
		if len(current)+len(sentence) < maxLength {
			current += sentence + ". "
		} else {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
			}
			current = sentence + ". "
		}
	}
	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

// EstimateSpeechDuration estimates speaking time in seconds at an
// average rate of 150 words per minute, with a 3 second floor
func EstimateSpeechDuration(text string) float64 {
	wordCount := len(strings.Fields(text))
	seconds := float64(wordCount) / wordsPerMinute * 60
	if seconds < 3 {
		return 3
	}
	return seconds
}
