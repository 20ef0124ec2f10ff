package services

import (
	"strings"
)

// WordCounts reports the per-category keyword hits and the token total
// so a classification can be audited.
type WordCounts struct {
	Positive  int `json:"positive"`
	Negative  int `json:"negative"`
	Neutral   int `json:"neutral"`
	Questions int `json:"questions"`
	Total     int `json:"total"`
}

// SentimentResult is the full outcome of analyzing one transcript.
type SentimentResult struct {
	OverallSentiment   string     `json:"overall_sentiment"`
	ConfidenceScore    int        `json:"confidence_score"`
	KeyEmotions        []string   `json:"key_emotions"`
	CustomerConcerns   []string   `json:"customer_concerns"`
	PositiveIndicators []string   `json:"positive_indicators"`
	NegativeIndicators []string   `json:"negative_indicators"`
	ActionItems        []string   `json:"action_items"`
	Summary            string     `json:"summary"`
	NextSteps          []string   `json:"next_steps"`
	PriorityLevel      string     `json:"priority_level"`
	WordCounts         WordCounts `json:"word_counts"`
}

// containsAny reports whether token contains any keyword of the set as
// a substring. Containment (not exact match) is the contract: "unlike"
// hits "like". See the lexicon notes before changing this.
func containsAny(token string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(token, kw) {
			return true
		}
	}
	return false
}

// AnalyzeSentiment classifies a free-text transcript into a sentiment
// category with a confidence score and derived emotion tags. The
// function is pure and deterministic: identical input yields identical
// output. An empty transcript yields a neutral result with zero hits.
func AnalyzeSentiment(text string) SentimentResult {
	words := strings.Fields(strings.ToLower(text))

	var positiveCount, negativeCount, neutralCount, questionCount int
	for _, word := range words {
		if containsAny(word, positiveWords) {
			positiveCount++
		}
		if containsAny(word, negativeWords) {
			negativeCount++
		}
		if containsAny(word, neutralWords) {
			neutralCount++
		}
		if containsAny(word, questionWords) {
			questionCount++
		}
	}

	sentiment := "neutral"
	confidence := 60
	if positiveCount > negativeCount && positiveCount > 0 {
		sentiment = "positive"
		confidence = min(95, 60+positiveCount*10)
	} else if negativeCount > positiveCount && negativeCount > 0 {
		sentiment = "negative"
		confidence = min(95, 60+negativeCount*10)
	}

	keyEmotions := []string{}
	if positiveCount > 0 {
		keyEmotions = append(keyEmotions, "satisfied", "interested")
	}
	if negativeCount > 0 {
		keyEmotions = append(keyEmotions, "concerned", "hesitant")
	}
	if questionCount > 2 {
		keyEmotions = append(keyEmotions, "curious", "engaged")
	}
	if len(keyEmotions) == 0 {
		keyEmotions = append(keyEmotions, "neutral")
	}

	customerConcerns := []string{}
	if negativeCount > 0 {
		customerConcerns = append(customerConcerns, "Some hesitation detected")
	}
	positiveIndicators := []string{}
	if positiveCount > 0 {
		positiveIndicators = append(positiveIndicators, "Positive language used")
	}
	negativeIndicators := []string{}
	if negativeCount > 0 {
		negativeIndicators = append(negativeIndicators, "Negative language detected")
	}

	priority := "low"
	if negativeCount > positiveCount {
		priority = "high"
	} else if positiveCount > 0 {
		priority = "medium"
	}

	plan := PlanActions(sentiment, positiveCount, negativeCount, questionCount)

	return SentimentResult{
		OverallSentiment:   sentiment,
		ConfidenceScore:    confidence,
		KeyEmotions:        keyEmotions,
		CustomerConcerns:   customerConcerns,
		PositiveIndicators: positiveIndicators,
		NegativeIndicators: negativeIndicators,
		ActionItems:        plan.ActionItems,
		Summary:            plan.Summary,
		NextSteps:          plan.NextSteps,
		PriorityLevel:      priority,
		WordCounts: WordCounts{
			Positive:  positiveCount,
			Negative:  negativeCount,
			Neutral:   neutralCount,
			Questions: questionCount,
			Total:     len(words),
		},
	}
}
