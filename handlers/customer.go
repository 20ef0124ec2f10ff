package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"ai_crm_app_go/db"
	"ai_crm_app_go/middleware"
	"ai_crm_app_go/models"
	"ai_crm_app_go/services"

	"github.com/labstack/echo/v4"
)

// maxRecordingSize caps call recording uploads at 50MB
const maxRecordingSize = 50 * 1024 * 1024

var recordingExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".ogg": true,
}

// CreateCustomerRequest is the payload for creating a customer directly
type CreateCustomerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Source       string `json:"source"`
	AssignedToID string `json:"assigned_to_id"`
}

// AddInteractionRequest is the payload for recording a contact event
type AddInteractionRequest struct {
	Type            string     `json:"type"`
	Summary         string     `json:"summary"`
	DurationMinutes *int       `json:"duration_minutes"`
	Sentiment       *string    `json:"sentiment"`
	OccurredAt      *time.Time `json:"occurred_at"`
}

func customerError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Customer not found"})
	case errors.Is(err, services.ErrInteractionNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Interaction not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// ListCustomersHandler returns a paginated customer listing
func ListCustomersHandler(c echo.Context) error {
	q := parseListQuery(c)
	if q.Status != "" && !models.IsValidCustomerStatus(q.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid customer status"})
	}

	result, err := services.ListCustomers(db.DB, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list customers"})
	}
	return c.JSON(http.StatusOK, result)
}

// CreateCustomerHandler creates a customer directly (not via conversion)
func CreateCustomerHandler(c echo.Context) error {
	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	customer := models.Customer{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Company: strings.TrimSpace(req.Company),
		Source:  strings.TrimSpace(req.Source),
	}
	if req.AssignedToID != "" {
		customer.AssignedToID = &req.AssignedToID
	}

	if err := services.CreateCustomer(db.DB, &customer); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionCreate, "Customer", customer.ID, customer.Name, "Customer created", nil, nil)

	return c.JSON(http.StatusCreated, customer)
}

// GetCustomerHandler returns a customer with notes and interactions
func GetCustomerHandler(c echo.Context) error {
	customer, err := services.GetCustomerByID(db.DB, c.Param("id"), true)
	if err != nil {
		return customerError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomerHandler applies a partial update to a customer
func UpdateCustomerHandler(c echo.Context) error {
	var patch services.CustomerPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	customer, err := services.UpdateCustomer(db.DB, c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return customerError(c, err)
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionUpdate, "Customer", customer.ID, customer.Name, "Customer updated", nil, patch)

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomerHandler soft-deletes a customer
func DeleteCustomerHandler(c echo.Context) error {
	id := c.Param("id")
	if err := services.SoftDeleteCustomer(db.DB, id); err != nil {
		return customerError(c, err)
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionDelete, "Customer", id, "", "Customer deleted", nil, nil)

	return c.JSON(http.StatusOK, map[string]string{"message": "Customer deleted"})
}

// AddCustomerNoteHandler appends a note to a customer
func AddCustomerNoteHandler(c echo.Context) error {
	var req AddNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	addedByID := ""
	if user := middleware.GetCurrentUser(c); user != nil {
		addedByID = user.ID
	}

	note, err := services.AddCustomerNote(db.DB, c.Param("id"), req.Text, addedByID)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return customerError(c, err)
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, note)
}

// AddInteractionHandler records a contact event against a customer
func AddInteractionHandler(c echo.Context) error {
	var req AddInteractionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	interaction := models.Interaction{
		Type:            strings.ToLower(strings.TrimSpace(req.Type)),
		Summary:         req.Summary,
		DurationMinutes: req.DurationMinutes,
		Sentiment:       req.Sentiment,
	}
	if req.OccurredAt != nil {
		interaction.OccurredAt = *req.OccurredAt
	}

	if err := services.AddInteraction(db.DB, c.Param("id"), &interaction); err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return customerError(c, err)
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, interaction)
}

// ListInteractionsHandler returns a customer's interactions
func ListInteractionsHandler(c echo.Context) error {
	interactions, err := services.ListInteractions(db.DB, c.Param("id"))
	if err != nil {
		return customerError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"interactions": interactions,
		"total":        len(interactions),
	})
}

// AnalyzeInteractionHandler scores an interaction transcript and
// persists the sentiment label
func AnalyzeInteractionHandler(c echo.Context) error {
	interaction, result, err := services.AnalyzeInteraction(db.DB, c.Param("id"), c.Param("interactionId"))
	if err != nil {
		return customerError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"interaction": interaction,
		"analysis":    result,
	})
}

// UploadRecordingHandler stores a call recording for an interaction
func UploadRecordingHandler(c echo.Context) error {
	customerID := c.Param("id")
	interactionID := c.Param("interactionId")

	if _, err := services.GetInteraction(db.DB, customerID, interactionID); err != nil {
		return customerError(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file uploaded"})
	}
	if fileHeader.Size > maxRecordingSize {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Recording exceeds the 50MB limit"})
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !recordingExtensions[ext] {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Unsupported file type %s", ext)})
	}

	key := services.GenerateRecordingKey(customerID, interactionID, fileHeader.Filename)
	result, err := services.Storage.Upload(c.Request().Context(), fileHeader, key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store recording"})
	}

	interaction, err := services.AttachRecording(db.DB, customerID, interactionID, result.Key, result.URL)
	if err != nil {
		return customerError(c, err)
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionUpdate, "Interaction", interactionID, "",
		"Call recording uploaded", nil, nil)

	return c.JSON(http.StatusOK, interaction)
}

// GetRecordingURLHandler returns a time-limited download link for a
// stored call recording
func GetRecordingURLHandler(c echo.Context) error {
	interaction, err := services.GetInteraction(db.DB, c.Param("id"), c.Param("interactionId"))
	if err != nil {
		return customerError(c, err)
	}
	if interaction.RecordingKey == "" {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No recording attached"})
	}

	url, err := services.Storage.GetSignedURL(c.Request().Context(), interaction.RecordingKey, 15*time.Minute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to sign recording URL"})
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
