package services

import (
	"strings"
	"time"

	"ai_crm_app_go/models"
)

// defaultAgentName is the fixed generic agent placeholder filler
const defaultAgentName = "our representative"

// defaultPurposeKey is the template used when a purpose is unknown
const defaultPurposeKey = "follow_up"

// ScriptFallbacks are canned responses for common call outcomes
type ScriptFallbacks struct {
	Busy          string `json:"busy"`
	NotInterested string `json:"not_interested"`
	NeedMoreInfo  string `json:"need_more_info"`
}

// CallScriptTemplate is one per-purpose template; every string field
// undergoes placeholder substitution when rendered.
type CallScriptTemplate struct {
	Greeting     string
	Introduction string
	MainPoints   []string
	Questions    []string
	Closing      string
	Fallbacks    ScriptFallbacks
}

// ScriptMetadata describes how a script was generated
type ScriptMetadata struct {
	CustomerName    string `json:"customerName"`
	CustomerCompany string `json:"customerCompany"`
	CustomerStatus  string `json:"customerStatus"`
	Purpose         string `json:"purpose"`
	GeneratedAt     string `json:"generatedAt"`
}

// CallScript is a fully personalized call script
type CallScript struct {
	Greeting     string          `json:"greeting"`
	Introduction string          `json:"introduction"`
	MainPoints   []string        `json:"main_points"`
	Questions    []string        `json:"questions"`
	Closing      string          `json:"closing"`
	Fallbacks    ScriptFallbacks `json:"fallbacks"`
	Metadata     ScriptMetadata  `json:"metadata"`
}

// callTemplates maps normalized purpose keys to templates. Immutable
// configuration; loaded once, never mutated at runtime.
var callTemplates = map[string]CallScriptTemplate{
	"follow_up": {
		Greeting:     "Hi {customerName}, this is {agentName} from {companyName}. I hope you're having a great day!",
		Introduction: "I'm calling to follow up on our previous conversation about {topic}. Do you have a few minutes to chat?",
		MainPoints: []string{
			"I wanted to check if you had any questions about our discussion",
			"We've prepared some additional information that might be helpful",
			"I'd love to understand your timeline and next steps",
		},
		Questions: []string{
			"What are your thoughts on what we discussed?",
			"Is there any specific information you need from us?",
			"What would be the best way to move forward?",
		},
		Closing: "Thank you for your time today. I'll send you a follow-up email with the details we discussed. When would be a good time for our next conversation?",
		Fallbacks: ScriptFallbacks{
			Busy:          "I understand you're busy right now. When would be a better time for me to call back?",
			NotInterested: "I appreciate your honesty. Is there anything specific that's changed, or should I check back with you in a few months?",
			NeedMoreInfo:  "Absolutely! I'll prepare that information and send it over. What's the best way to get that to you?",
		},
	},
	"sales_pitch": {
		Greeting:     "Hello {customerName}, this is {agentName} from {companyName}. How are you doing today?",
		Introduction: "I'm reaching out because I believe our {product} could really benefit {companyName}. Do you have a few minutes to hear about it?",
		MainPoints: []string{
			"We help companies like yours {primaryBenefit}",
			"Our solution has helped similar businesses {specificResult}",
			"I'd love to show you how this could work for your specific situation",
		},
		Questions: []string{
			"What challenges are you currently facing with {problemArea}?",
			"How are you handling {specificProcess} right now?",
			"What would an ideal solution look like for you?",
		},
		Closing: "Based on what you've shared, I think we could really help. Would you be open to a quick 15-minute demo next week?",
		Fallbacks: ScriptFallbacks{
			Busy:          "I totally understand. Would it be better if I sent you some information via email first?",
			NotInterested: "No problem at all. Can I ask what's working well for you currently?",
			NeedMoreInfo:  "Great question! Let me get you the exact details. What's your email address?",
		},
	},
	"appointment_confirmation": {
		Greeting:     "Hi {customerName}, this is {agentName} from {companyName}.",
		Introduction: "I'm calling to confirm our appointment scheduled for {appointmentDate} at {appointmentTime}. Will you still be available?",
		MainPoints: []string{
			"I have you down for {appointmentType} on {appointmentDate}",
			"The meeting is scheduled to last about {duration}",
			"I'll be sending you a calendar invite with all the details",
		},
		Questions: []string{
			"Is the scheduled time still convenient for you?",
			"Do you need the meeting location or dial-in details?",
			"Is there anything specific you'd like to cover during our meeting?",
		},
		Closing: "Perfect! I'm looking forward to our conversation. You should receive a calendar invite shortly with all the details.",
		Fallbacks: ScriptFallbacks{
			Busy:          "I understand. What time would work better for you?",
			NotInterested: "I see. Has something changed since we last spoke?",
			NeedMoreInfo:  "Of course! Let me get you all the details you need.",
		},
	},
	"customer_support": {
		Greeting:     "Hello {customerName}, this is {agentName} from {companyName} customer support.",
		Introduction: "I'm calling regarding the support ticket you submitted. I have some updates and wanted to walk you through the solution.",
		MainPoints: []string{
			"I've reviewed your issue about {issueDescription}",
			"We've identified the cause and have a solution ready",
			"I want to make sure this resolves everything for you",
		},
		Questions: []string{
			"Can you confirm if you're still experiencing the issue?",
			"Would you like me to walk you through the solution step by step?",
			"Is there anything else I can help you with while we're on the call?",
		},
		Closing: "I'm glad we could resolve this for you. If you have any other questions, please don't hesitate to reach out to us.",
		Fallbacks: ScriptFallbacks{
			Busy:          "I understand you're busy. Can I send you the solution via email instead?",
			NotInterested: "No problem. The solution will be in your support portal if you need it later.",
			NeedMoreInfo:  "Absolutely! Let me provide you with more detailed information.",
		},
	},
}

// NormalizePurposeKey lower-cases a purpose and joins whitespace runs
// with underscores so "Sales Pitch" resolves to "sales_pitch".
func NormalizePurposeKey(purpose string) string {
	return strings.Join(strings.Fields(strings.ToLower(purpose)), "_")
}

// placeholderValues builds the replacement map for one customer and
// purpose. Every declared placeholder has a filler, so no placeholder
// survives rendering. The placeholders are disjoint; replacement order
// does not matter.
func placeholderValues(customer *models.Customer, purpose string) map[string]string {
	company := customer.Company
	if company == "" {
		company = "your organization"
	}
	topic := purpose
	if topic == "" {
		topic = "our services"
	}
	problemArea := strings.ToLower(purpose)
	if problemArea == "" {
		problemArea = "operations"
	}
	return map[string]string{
		"{customerName}":     customer.Name,
		"{companyName}":      company,
		"{agentName}":        defaultAgentName,
		"{topic}":            topic,
		"{product}":          "solution",
		"{primaryBenefit}":   "improve efficiency",
		"{specificResult}":   "increase productivity by 30%",
		"{problemArea}":      problemArea,
		"{specificProcess}":  "current workflow",
		"{appointmentDate}":  "the scheduled date",
		"{appointmentTime}":  "the scheduled time",
		"{appointmentType}":  "consultation",
		"{duration}":         "30 minutes",
		"{issueDescription}": "your recent inquiry",
	}
}

func substitute(s string, values map[string]string) string {
	for placeholder, value := range values {
		s = strings.ReplaceAll(s, placeholder, value)
	}
	return s
}

func substituteAll(items []string, values map[string]string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = substitute(item, values)
	}
	return out
}

// GenerateCallScript renders a personalized call script for the given
// customer and purpose. Unknown purposes fall back to the default
// template; the function never errors.
func GenerateCallScript(customer *models.Customer, purpose string) CallScript {
	template, ok := callTemplates[NormalizePurposeKey(purpose)]
	if !ok {
		template = callTemplates[defaultPurposeKey]
	}

	values := placeholderValues(customer, purpose)

	company := customer.Company
	if company == "" {
		company = "your organization"
	}

	return CallScript{
		Greeting:     substitute(template.Greeting, values),
		Introduction: substitute(template.Introduction, values),
		MainPoints:   substituteAll(template.MainPoints, values),
		Questions:    substituteAll(template.Questions, values),
		Closing:      substitute(template.Closing, values),
		Fallbacks: ScriptFallbacks{
			Busy:          substitute(template.Fallbacks.Busy, values),
			NotInterested: substitute(template.Fallbacks.NotInterested, values),
			NeedMoreInfo:  substitute(template.Fallbacks.NeedMoreInfo, values),
		},
		Metadata: ScriptMetadata{
			CustomerName:    customer.Name,
			CustomerCompany: company,
			CustomerStatus:  customer.Status,
			Purpose:         purpose,
			GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		},
	}
}
