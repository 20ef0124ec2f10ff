package services

import (
	"fmt"
	"strings"
	"time"

	"ai_crm_app_go/models"
)

// EmailMetadata describes how a follow-up email was generated
type EmailMetadata struct {
	Customer    string `json:"customer"`
	Company     string `json:"company"`
	Sentiment   string `json:"sentiment"`
	GeneratedAt string `json:"generatedAt"`
}

// FollowUpEmail is a generated follow-up email ready to send
type FollowUpEmail struct {
	Subject  string        `json:"subject"`
	Body     string        `json:"body"`
	Priority string        `json:"priority"` // normal, high
	Metadata EmailMetadata `json:"metadata"`
}

// bulletList renders one bullet per entry, falling back to two fixed
// generic bullets when the list is empty.
func bulletList(items []string, fallback ...string) string {
	if len(items) == 0 {
		items = fallback
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}

// GenerateFollowUpEmail renders a follow-up email for the customer
// keyed by the analyzed sentiment; unrecognized sentiment values fall
// back to the neutral template. The function never errors.
func GenerateFollowUpEmail(customer *models.Customer, callSummary string, analysis SentimentResult) FollowUpEmail {
	sentiment := analysis.OverallSentiment
	if sentiment != "positive" && sentiment != "negative" {
		sentiment = "neutral"
	}

	company := customer.Company
	if company == "" {
		company = "your organization"
	}

	var subject, body, priority string

	switch sentiment {
	case "positive":
		subject = fmt.Sprintf("Great connecting with you, %s!", customer.Name)
		body = fmt.Sprintf(`Hi %s,

Thank you for taking the time to speak with me today! I really enjoyed our conversation about your needs at %s.

Based on our discussion, I understand you're looking for solutions that can help with your current challenges. I'm excited about the opportunity to work together.

Next Steps:
%s

I'll be in touch soon with the information we discussed. Please don't hesitate to reach out if you have any questions in the meantime.

Best regards,
Your CRM Team

P.S. I look forward to helping %s achieve your goals!`,
			customer.Name, company,
			bulletList(analysis.ActionItems,
				"I will send you additional information",
				"We will schedule a follow-up meeting"),
			company)
		priority = "normal"

	case "negative":
		subject = fmt.Sprintf("Following up on your concerns - %s", customer.Name)
		body = fmt.Sprintf(`Hi %s,

Thank you for your time today and for sharing your honest feedback about your current situation.

I want to make sure we address all of your concerns properly:

%s

Our team is committed to finding the right solution for %s. I will personally ensure that we address each of your questions thoroughly.

Immediate Actions:
%s

Thank you for your patience, and I look forward to earning your trust.

Best regards,
Your CRM Team

P.S. Your feedback is valuable to us and helps us improve our service.`,
			customer.Name,
			bulletList(analysis.CustomerConcerns,
				"I will review your specific requirements",
				"We will provide detailed solutions"),
			company,
			bulletList(analysis.ActionItems,
				"I will call you back within 24 hours",
				"We will prepare a customized proposal"))
		priority = "high"

	default:
		subject = fmt.Sprintf("Thank you for your time today, %s", customer.Name)
		body = fmt.Sprintf(`Hi %s,

Thank you for speaking with me today about your needs at %s.

I understand you're evaluating your options, and I want to make sure you have all the information you need to make the best decision.

What's Next:
%s

Please take your time to review everything, and don't hesitate to reach out with any questions. I'm here to help make this process as easy as possible for you.

Best regards,
Your CRM Team

P.S. I'm confident we can find a solution that works perfectly for %s.`,
			customer.Name, company,
			bulletList(analysis.NextSteps,
				"I will send you detailed information",
				"We can schedule a follow-up when convenient"),
			company)
		priority = "normal"
	}

	return FollowUpEmail{
		Subject:  subject,
		Body:     body,
		Priority: priority,
		Metadata: EmailMetadata{
			Customer:    customer.Name,
			Company:     customer.Company,
			Sentiment:   sentiment,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
}
