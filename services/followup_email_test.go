package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateFollowUpEmail(t *testing.T) {
	t.Run("Positive sentiment", func(t *testing.T) {
		customer := testCustomer()
		analysis := AnalyzeSentiment("This is great, I love it and the demo was excellent")

		email := GenerateFollowUpEmail(customer, "good call", analysis)

		assert.Contains(t, email.Subject, "Great connecting with you")
		assert.Contains(t, email.Subject, customer.Name)
		assert.Contains(t, email.Body, customer.Company)
		assert.Equal(t, "normal", email.Priority)
		assert.Equal(t, "positive", email.Metadata.Sentiment)
	})

	t.Run("Negative sentiment escalates priority", func(t *testing.T) {
		customer := testCustomer()
		analysis := AnalyzeSentiment("I am frustrated, this is terrible and disappointing")

		email := GenerateFollowUpEmail(customer, "rough call", analysis)

		assert.Contains(t, email.Subject, "Following up on your concerns")
		assert.Equal(t, "high", email.Priority)
		assert.Contains(t, email.Body, "Immediate Actions:")
	})

	t.Run("Neutral sentiment", func(t *testing.T) {
		customer := testCustomer()
		analysis := AnalyzeSentiment("We talked about the weather")

		email := GenerateFollowUpEmail(customer, "neutral call", analysis)

		assert.Contains(t, email.Subject, "Thank you for your time today")
		assert.Equal(t, "normal", email.Priority)
		assert.Contains(t, email.Body, "What's Next:")
	})

	t.Run("Empty action items fall back to generic bullets", func(t *testing.T) {
		customer := testCustomer()

		email := GenerateFollowUpEmail(customer, "", SentimentResult{OverallSentiment: "positive"})

		assert.Contains(t, email.Body, "• I will send you additional information")
		assert.Contains(t, email.Body, "• We will schedule a follow-up meeting")
	})

	t.Run("Missing company uses generic filler", func(t *testing.T) {
		customer := testCustomer()
		customer.Company = ""

		email := GenerateFollowUpEmail(customer, "", SentimentResult{OverallSentiment: "neutral"})

		assert.Contains(t, email.Body, "your organization")
	})
}
