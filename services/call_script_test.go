package services

import (
	"strings"
	"testing"

	"ai_crm_app_go/models"

	"github.com/stretchr/testify/assert"
)

func testCustomer() *models.Customer {
	return &models.Customer{
		ID:      "cust-1",
		Name:    "Ada Lovelace",
		Company: "Analytical Engines",
		Status:  models.CustomerStatusActive,
	}
}

func TestGenerateCallScript(t *testing.T) {
	t.Run("Personalizes every section", func(t *testing.T) {
		script := GenerateCallScript(testCustomer(), "follow_up")

		assert.Contains(t, script.Greeting, "Ada Lovelace")
		assert.NotEmpty(t, script.Introduction)
		assert.NotEmpty(t, script.MainPoints)
		assert.NotEmpty(t, script.Questions)
		assert.NotEmpty(t, script.Closing)
		assert.NotEmpty(t, script.Fallbacks.Busy)
		assert.NotEmpty(t, script.Fallbacks.NotInterested)
		assert.NotEmpty(t, script.Fallbacks.NeedMoreInfo)

		assert.Equal(t, "Ada Lovelace", script.Metadata.CustomerName)
		assert.Equal(t, "Analytical Engines", script.Metadata.CustomerCompany)
		assert.Equal(t, "follow_up", script.Metadata.Purpose)
	})

	t.Run("No placeholder survives rendering", func(t *testing.T) {
		for _, purpose := range []string{"follow_up", "sales_pitch", "appointment_confirmation", "customer_support"} {
			script := GenerateCallScript(testCustomer(), purpose)

			all := []string{script.Greeting, script.Introduction, script.Closing,
				script.Fallbacks.Busy, script.Fallbacks.NotInterested, script.Fallbacks.NeedMoreInfo}
			all = append(all, script.MainPoints...)
			all = append(all, script.Questions...)

			for _, s := range all {
				assert.NotContains(t, s, "{", "purpose %s leaked a placeholder in %q", purpose, s)
			}
		}
	})

	t.Run("Missing company uses generic filler", func(t *testing.T) {
		customer := testCustomer()
		customer.Company = ""

		script := GenerateCallScript(customer, "sales_pitch")

		joined := strings.Join(append([]string{script.Greeting, script.Introduction}, script.MainPoints...), " ")
		assert.NotContains(t, joined, "{companyName}")
		assert.Equal(t, "your organization", script.Metadata.CustomerCompany)
	})

	t.Run("Unknown purpose falls back to follow_up template", func(t *testing.T) {
		fallback := GenerateCallScript(testCustomer(), "something else entirely")
		followUp := GenerateCallScript(testCustomer(), "follow_up")

		assert.Equal(t, followUp.Greeting, fallback.Greeting)
		// the requested purpose is still echoed in metadata
		assert.Equal(t, "something else entirely", fallback.Metadata.Purpose)
	})
}

func TestNormalizePurposeKey(t *testing.T) {
	assert.Equal(t, "sales_pitch", NormalizePurposeKey("Sales Pitch"))
	assert.Equal(t, "sales_pitch", NormalizePurposeKey("  SALES   pitch  "))
	assert.Equal(t, "follow_up", NormalizePurposeKey("follow_up"))
	assert.Equal(t, "", NormalizePurposeKey("   "))
}
