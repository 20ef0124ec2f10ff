package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ai_crm_app_go/config"
	"ai_crm_app_go/db"
	"ai_crm_app_go/services"

	"github.com/labstack/echo/v4"
)

// GenerateScriptRequest asks for a personalized call script
type GenerateScriptRequest struct {
	CustomerID string `json:"customer_id"`
	Purpose    string `json:"purpose"`
}

// AnalyzeSentimentRequest carries a raw transcript to score
type AnalyzeSentimentRequest struct {
	Transcript string `json:"transcript"`
}

// GenerateEmailRequest asks for a follow-up email draft. A previously
// computed sentiment analysis can be supplied to skip re-scoring.
type GenerateEmailRequest struct {
	CustomerID  string                    `json:"customer_id"`
	CallSummary string                    `json:"call_summary"`
	Analysis    *services.SentimentResult `json:"analysis,omitempty"`
	Send        bool                      `json:"send"`
}

// SpeechRequest asks for voice delivery instructions for a text
type SpeechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// GenerateScriptHandler builds a call script for a customer
func GenerateScriptHandler(c echo.Context) error {
	var req GenerateScriptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.CustomerID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "customer_id is required"})
	}

	customer, err := services.GetCustomerByID(db.DB, req.CustomerID, true)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch customer"})
	}

	script := services.GenerateCallScript(customer, req.Purpose)
	return c.JSON(http.StatusOK, script)
}

// GenerateScriptPDFHandler builds a call script and returns it as a
// printable PDF
func GenerateScriptPDFHandler(c echo.Context) error {
	var req GenerateScriptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.CustomerID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "customer_id is required"})
	}

	customer, err := services.GetCustomerByID(db.DB, req.CustomerID, true)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch customer"})
	}

	script := services.GenerateCallScript(customer, req.Purpose)
	pdf, err := services.GenerateCallScriptPDF(&script)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate PDF"})
	}

	filename := fmt.Sprintf("call_script_%s.pdf", customer.ID)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// AnalyzeSentimentHandler scores a transcript without persisting anything
func AnalyzeSentimentHandler(c echo.Context) error {
	var req AnalyzeSentimentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	result := services.AnalyzeSentiment(req.Transcript)
	return c.JSON(http.StatusOK, result)
}

// GenerateEmailHandler drafts a follow-up email from a call summary.
// With send=true the draft is also delivered to the customer's address.
func GenerateEmailHandler(c echo.Context) error {
	var req GenerateEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.CustomerID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "customer_id is required"})
	}

	customer, err := services.GetCustomerByID(db.DB, req.CustomerID, true)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch customer"})
	}

	var analysis services.SentimentResult
	if req.Analysis != nil {
		analysis = *req.Analysis
	} else {
		analysis = services.AnalyzeSentiment(req.CallSummary)
	}
	followUp := services.GenerateFollowUpEmail(customer, req.CallSummary, analysis)

	sent := false
	if req.Send {
		if customer.Email == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Customer has no email address"})
		}
		cfg := c.Get("config").(*config.Config)
		services.SendEmailAsync(cfg, services.BuildFollowUpEmail(customer.Email, followUp))
		sent = true
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"email": followUp,
		"sent":  sent,
	})
}

// SpeechHandler returns voice settings, text chunks and an estimated
// duration for reading a text aloud
func SpeechHandler(c echo.Context) error {
	var req SpeechRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	instructions := services.GetVoiceInstructions(req.Text, req.Voice)
	return c.JSON(http.StatusOK, instructions)
}

// VoicePresetsHandler lists the available voice presets
func VoicePresetsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, services.GetVoicePresets())
}
