package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ai_crm_app_go/db"
	"ai_crm_app_go/middleware"
	"ai_crm_app_go/models"
	"ai_crm_app_go/services"

	"github.com/labstack/echo/v4"
)

// CreateLeadRequest is the payload for creating a lead
type CreateLeadRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Source       string `json:"source"`
	Interest     string `json:"interest"`
	AssignedToID string `json:"assigned_to_id"`
}

// UpdateLeadStatusRequest is the payload for a status transition
type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

// AddNoteRequest is the payload for appending a note
type AddNoteRequest struct {
	Text string `json:"text"`
}

func parseListQuery(c echo.Context) services.ListQuery {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return services.ListQuery{
		Page:         page,
		Limit:        limit,
		Search:       strings.TrimSpace(c.QueryParam("search")),
		Status:       strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))),
		Source:       strings.TrimSpace(c.QueryParam("source")),
		AssignedToID: strings.TrimSpace(c.QueryParam("assigned_to")),
		SortBy:       strings.TrimSpace(c.QueryParam("sort_by")),
	}
}

// leadError maps service errors to HTTP responses
func leadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrLeadNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Lead not found"})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lead status"})
	case errors.Is(err, services.ErrConvertViaStatus):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Use the convert endpoint to mark a lead as converted"})
	case errors.Is(err, services.ErrTerminalStatus):
		return c.JSON(http.StatusConflict, map[string]string{"error": "Lead is already converted or lost"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// ListLeadsHandler returns a paginated lead listing
func ListLeadsHandler(c echo.Context) error {
	q := parseListQuery(c)
	if q.Status != "" && !models.IsValidLeadStatus(q.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lead status"})
	}

	result, err := services.ListLeads(db.DB, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list leads"})
	}
	return c.JSON(http.StatusOK, result)
}

// CreateLeadHandler creates a new lead
func CreateLeadHandler(c echo.Context) error {
	var req CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	lead := models.Lead{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Company:  strings.TrimSpace(req.Company),
		Source:   strings.TrimSpace(req.Source),
		Interest: strings.TrimSpace(req.Interest),
	}
	if req.AssignedToID != "" {
		lead.AssignedToID = &req.AssignedToID
	}

	if err := services.CreateLead(db.DB, &lead); err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			return leadError(c, err)
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionCreate, "Lead", lead.ID, lead.Name, "Lead created", nil, nil)

	return c.JSON(http.StatusCreated, lead)
}

// GetLeadHandler returns a single lead with its notes
func GetLeadHandler(c echo.Context) error {
	lead, err := services.GetLeadByID(db.DB, c.Param("id"), true)
	if err != nil {
		return leadError(c, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// UpdateLeadHandler applies a partial update to a lead
func UpdateLeadHandler(c echo.Context) error {
	var patch services.LeadPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	lead, err := services.UpdateLead(db.DB, c.Param("id"), patch)
	if err != nil {
		return leadError(c, err)
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionUpdate, "Lead", lead.ID, lead.Name, "Lead updated", nil, patch)

	return c.JSON(http.StatusOK, lead)
}

// UpdateLeadStatusHandler performs a guarded status transition
func UpdateLeadStatusHandler(c echo.Context) error {
	var req UpdateLeadStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	lead, err := services.UpdateLeadStatus(db.DB, c.Param("id"), status)
	if err != nil {
		return leadError(c, err)
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionUpdate, "Lead", lead.ID, lead.Name,
		fmt.Sprintf("Status changed to %s", status), nil, map[string]string{"status": status})

	return c.JSON(http.StatusOK, lead)
}

// DeleteLeadHandler soft-deletes a lead
func DeleteLeadHandler(c echo.Context) error {
	id := c.Param("id")
	if err := services.SoftDeleteLead(db.DB, id); err != nil {
		return leadError(c, err)
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionDelete, "Lead", id, "", "Lead deleted", nil, nil)

	return c.JSON(http.StatusOK, map[string]string{"message": "Lead deleted"})
}

// AddLeadNoteHandler appends a note to a lead
func AddLeadNoteHandler(c echo.Context) error {
	var req AddNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	addedByID := ""
	if user := middleware.GetCurrentUser(c); user != nil {
		addedByID = user.ID
	}

	note, err := services.AddLeadNote(db.DB, c.Param("id"), req.Text, addedByID)
	if err != nil {
		if errors.Is(err, services.ErrLeadNotFound) {
			return leadError(c, err)
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, note)
}

// ConvertLeadHandler converts a lead into a customer. Converting an
// already-converted lead returns the existing customer.
func ConvertLeadHandler(c echo.Context) error {
	result, err := services.ConvertLeadToCustomer(db.DB, c.Param("id"))
	if err != nil {
		return leadError(c, err)
	}

	if result.Converted {
		auditCtx := middleware.GetAuditContext(c)
		services.LogAuditEvent(db.DB, auditCtx, models.AuditActionConvert, "Lead", c.Param("id"),
			result.Customer.Name, fmt.Sprintf("Converted to customer %s", result.Customer.ID), nil, nil)
		return c.JSON(http.StatusCreated, result)
	}
	return c.JSON(http.StatusOK, result)
}

// LeadImportTemplateHandler serves the spreadsheet import template
func LeadImportTemplateHandler(c echo.Context) error {
	buf, err := services.GenerateLeadImportTemplate()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate template"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="lead_import_template.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ImportLeadsHandler imports leads from an uploaded spreadsheet
func ImportLeadsHandler(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file uploaded"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to open uploaded file"})
	}
	defer file.Close()

	assignedToID := ""
	if user := middleware.GetCurrentUser(c); user != nil {
		assignedToID = user.ID
	}

	result, err := services.ImportLeadsFromExcel(db.DB, file, assignedToID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionCreate, "Lead", "", "",
		fmt.Sprintf("Imported %d leads (%d failed)", result.SuccessCount, result.FailedCount), nil, nil)

	return c.JSON(http.StatusOK, result)
}

// ExportLeadsHandler exports all leads as a spreadsheet
func ExportLeadsHandler(c echo.Context) error {
	buf, err := services.ExportLeadsToExcel(db.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to export leads"})
	}

	filename := fmt.Sprintf("leads_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
