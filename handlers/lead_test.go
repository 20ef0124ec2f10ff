package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"ai_crm_app_go/models"
	"ai_crm_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCreateLeadHandler(t *testing.T) {
	t.Run("Creates lead with defaults", func(t *testing.T) {
		testDB := setupTestDB(t)

		body := `{"name":"Ada Lovelace","email":"ada@example.com","company":"Analytical Engines"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/leads", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		err := CreateLeadHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var lead models.Lead
		assert.NoError(t, testDB.First(&lead, "email = ?", "ada@example.com").Error)
		assert.Equal(t, models.LeadStatusNew, lead.Status)
		assert.Equal(t, "website", lead.Source)
		assert.NotEmpty(t, lead.ID)
	})

	t.Run("Rejects missing name", func(t *testing.T) {
		setupTestDB(t)

		_, c, rec := setupEcho(http.MethodPost, "/api/leads", strings.NewReader(`{"email":"x@example.com"}`))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		err := CreateLeadHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetLeadHandler(t *testing.T) {
	t.Run("Returns lead with notes", func(t *testing.T) {
		testDB := setupTestDB(t)
		lead := createTestLead(t, testDB)
		_, err := services.AddLeadNote(testDB, lead.ID, "spoke on the phone", "")
		assert.NoError(t, err)

		_, c, rec := setupEcho(http.MethodGet, "/api/leads/"+lead.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)

		assert.NoError(t, GetLeadHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "spoke on the phone")
	})

	t.Run("Unknown id returns 404", func(t *testing.T) {
		setupTestDB(t)

		_, c, rec := setupEcho(http.MethodGet, "/api/leads/unknown", nil)
		c.SetParamNames("id")
		c.SetParamValues("unknown")

		assert.NoError(t, GetLeadHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Soft-deleted lead is absent", func(t *testing.T) {
		testDB := setupTestDB(t)
		lead := createTestLead(t, testDB)
		assert.NoError(t, services.SoftDeleteLead(testDB, lead.ID))

		_, c, rec := setupEcho(http.MethodGet, "/api/leads/"+lead.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)

		assert.NoError(t, GetLeadHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateLeadStatusHandler(t *testing.T) {
	t.Run("Valid transition", func(t *testing.T) {
		testDB := setupTestDB(t)
		lead := createTestLead(t, testDB)

		_, c, rec := setupEcho(http.MethodPut, "/api/leads/"+lead.ID+"/status",
			strings.NewReader(`{"status":"CONTACTED"}`))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)

		assert.NoError(t, UpdateLeadStatusHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var stored models.Lead
		testDB.First(&stored, "id = ?", lead.ID)
		assert.Equal(t, models.LeadStatusContacted, stored.Status)
	})

	t.Run("CONVERTED is rejected", func(t *testing.T) {
		testDB := setupTestDB(t)
		lead := createTestLead(t, testDB)

		_, c, rec := setupEcho(http.MethodPut, "/api/leads/"+lead.ID+"/status",
			strings.NewReader(`{"status":"CONVERTED"}`))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)

		assert.NoError(t, UpdateLeadStatusHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "convert endpoint")
	})

	t.Run("Terminal lead returns conflict", func(t *testing.T) {
		testDB := setupTestDB(t)
		lead := createTestLead(t, testDB)
		_, err := services.UpdateLeadStatus(testDB, lead.ID, models.LeadStatusLost)
		assert.NoError(t, err)

		_, c, rec := setupEcho(http.MethodPut, "/api/leads/"+lead.ID+"/status",
			strings.NewReader(`{"status":"CONTACTED"}`))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)

		assert.NoError(t, UpdateLeadStatusHandler(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Unknown status", func(t *testing.T) {
		testDB := setupTestDB(t)
		lead := createTestLead(t, testDB)

		_, c, rec := setupEcho(http.MethodPut, "/api/leads/"+lead.ID+"/status",
			strings.NewReader(`{"status":"ON_FIRE"}`))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)

		assert.NoError(t, UpdateLeadStatusHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestConvertLeadHandler(t *testing.T) {
	t.Run("First conversion creates customer", func(t *testing.T) {
		testDB := setupTestDB(t)
		lead := createTestLead(t, testDB)

		_, c, rec := setupEcho(http.MethodPost, "/api/leads/"+lead.ID+"/convert", nil)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)

		assert.NoError(t, ConvertLeadHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var result services.ConvertResult
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Converted)
		assert.Equal(t, models.CustomerSourceLead, result.Customer.Source)
		assert.Equal(t, lead.Name, result.Customer.Name)

		var stored models.Lead
		testDB.First(&stored, "id = ?", lead.ID)
		assert.Equal(t, models.LeadStatusConverted, stored.Status)
	})

	t.Run("Second conversion returns existing customer", func(t *testing.T) {
		testDB := setupTestDB(t)
		lead := createTestLead(t, testDB)

		first, err := services.ConvertLeadToCustomer(testDB, lead.ID)
		assert.NoError(t, err)

		_, c, rec := setupEcho(http.MethodPost, "/api/leads/"+lead.ID+"/convert", nil)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)

		assert.NoError(t, ConvertLeadHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var result services.ConvertResult
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Converted)
		assert.Equal(t, first.Customer.ID, result.Customer.ID)
		assert.Equal(t, "Already converted", result.Message)

		var count int64
		testDB.Model(&models.Customer{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Lost lead cannot convert", func(t *testing.T) {
		testDB := setupTestDB(t)
		lead := createTestLead(t, testDB)
		_, err := services.UpdateLeadStatus(testDB, lead.ID, models.LeadStatusLost)
		assert.NoError(t, err)

		_, c, rec := setupEcho(http.MethodPost, "/api/leads/"+lead.ID+"/convert", nil)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)

		assert.NoError(t, ConvertLeadHandler(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestListLeadsHandler(t *testing.T) {
	t.Run("Filters by status", func(t *testing.T) {
		testDB := setupTestDB(t)
		createTestLead(t, testDB)
		other := &models.Lead{Name: "Contacted Lead", Status: models.LeadStatusContacted}
		assert.NoError(t, services.CreateLead(testDB, other))

		_, c, rec := setupEcho(http.MethodGet, "/api/leads?status=contacted", nil)

		assert.NoError(t, ListLeadsHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var result services.ListResult[models.Lead]
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, int64(1), result.Total)
		assert.Equal(t, "Contacted Lead", result.Items[0].Name)
	})

	t.Run("Invalid status filter", func(t *testing.T) {
		setupTestDB(t)

		_, c, rec := setupEcho(http.MethodGet, "/api/leads?status=bogus", nil)

		assert.NoError(t, ListLeadsHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteLeadHandler(t *testing.T) {
	t.Run("Soft delete keeps the row", func(t *testing.T) {
		testDB := setupTestDB(t)
		lead := createTestLead(t, testDB)

		_, c, rec := setupEcho(http.MethodDelete, "/api/leads/"+lead.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)

		assert.NoError(t, DeleteLeadHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var stored models.Lead
		assert.NoError(t, testDB.First(&stored, "id = ?", lead.ID).Error)
		assert.True(t, stored.IsDeleted)
	})
}
