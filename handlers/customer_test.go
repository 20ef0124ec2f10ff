package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"ai_crm_app_go/models"
	"ai_crm_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCreateCustomerHandler(t *testing.T) {
	t.Run("Creates active customer", func(t *testing.T) {
		testDB := setupTestDB(t)

		body := `{"name":"Grace Hopper","email":"grace@example.com","source":"referral"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/customers", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		assert.NoError(t, CreateCustomerHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var customer models.Customer
		assert.NoError(t, testDB.First(&customer, "email = ?", "grace@example.com").Error)
		assert.Equal(t, models.CustomerStatusActive, customer.Status)
		assert.Equal(t, "referral", customer.Source)
		assert.Nil(t, customer.SourceLeadID)
	})

	t.Run("Rejects missing name", func(t *testing.T) {
		setupTestDB(t)

		_, c, rec := setupEcho(http.MethodPost, "/api/customers", strings.NewReader(`{"email":"x@example.com"}`))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		assert.NoError(t, CreateCustomerHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateCustomerHandler(t *testing.T) {
	t.Run("Patches status", func(t *testing.T) {
		testDB := setupTestDB(t)
		customer := createTestCustomer(t, testDB)

		_, c, rec := setupEcho(http.MethodPut, "/api/customers/"+customer.ID,
			strings.NewReader(`{"status":"INACTIVE"}`))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c.SetParamNames("id")
		c.SetParamValues(customer.ID)

		assert.NoError(t, UpdateCustomerHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var stored models.Customer
		testDB.First(&stored, "id = ?", customer.ID)
		assert.Equal(t, models.CustomerStatusInactive, stored.Status)
	})

	t.Run("Rejects invalid status", func(t *testing.T) {
		testDB := setupTestDB(t)
		customer := createTestCustomer(t, testDB)

		_, c, rec := setupEcho(http.MethodPut, "/api/customers/"+customer.ID,
			strings.NewReader(`{"status":"FROZEN"}`))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c.SetParamNames("id")
		c.SetParamValues(customer.ID)

		assert.NoError(t, UpdateCustomerHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAddInteractionHandler(t *testing.T) {
	t.Run("Records a call", func(t *testing.T) {
		testDB := setupTestDB(t)
		customer := createTestCustomer(t, testDB)

		body := `{"type":"call","summary":"Talked about pricing","duration_minutes":12}`
		_, c, rec := setupEcho(http.MethodPost, "/api/customers/"+customer.ID+"/interactions", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c.SetParamNames("id")
		c.SetParamValues(customer.ID)

		assert.NoError(t, AddInteractionHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var interaction models.Interaction
		assert.NoError(t, testDB.First(&interaction, "customer_id = ?", customer.ID).Error)
		assert.Equal(t, models.InteractionTypeCall, interaction.Type)
		assert.NotNil(t, interaction.DurationMinutes)
		assert.Equal(t, 12, *interaction.DurationMinutes)
		assert.Nil(t, interaction.Sentiment)
		assert.False(t, interaction.OccurredAt.IsZero())
	})

	t.Run("Rejects unknown type", func(t *testing.T) {
		testDB := setupTestDB(t)
		customer := createTestCustomer(t, testDB)

		body := `{"type":"carrier_pigeon","summary":"..."}`
		_, c, rec := setupEcho(http.MethodPost, "/api/customers/"+customer.ID+"/interactions", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c.SetParamNames("id")
		c.SetParamValues(customer.ID)

		assert.NoError(t, AddInteractionHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListInteractionsHandler(t *testing.T) {
	t.Run("Returns interactions newest first", func(t *testing.T) {
		testDB := setupTestDB(t)
		customer := createTestCustomer(t, testDB)

		older := models.Interaction{
			CustomerID: customer.ID,
			Type:       models.InteractionTypeEmail,
			Summary:    "Intro email",
			OccurredAt: time.Now().Add(-2 * time.Hour),
		}
		newer := models.Interaction{
			CustomerID: customer.ID,
			Type:       models.InteractionTypeCall,
			Summary:    "Follow-up call",
			OccurredAt: time.Now().Add(-1 * time.Hour),
		}
		assert.NoError(t, testDB.Create(&older).Error)
		assert.NoError(t, testDB.Create(&newer).Error)

		_, c, rec := setupEcho(http.MethodGet, "/api/customers/"+customer.ID+"/interactions", nil)
		c.SetParamNames("id")
		c.SetParamValues(customer.ID)

		assert.NoError(t, ListInteractionsHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var response struct {
			Interactions []models.Interaction `json:"interactions"`
			Total        int                  `json:"total"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, 2, response.Total)
		assert.Equal(t, newer.ID, response.Interactions[0].ID)
		assert.Equal(t, older.ID, response.Interactions[1].ID)
	})

	t.Run("Unknown customer", func(t *testing.T) {
		setupTestDB(t)

		_, c, rec := setupEcho(http.MethodGet, "/api/customers/nope/interactions", nil)
		c.SetParamNames("id")
		c.SetParamValues("nope")

		assert.NoError(t, ListInteractionsHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAnalyzeInteractionHandler(t *testing.T) {
	t.Run("Scores and persists sentiment", func(t *testing.T) {
		testDB := setupTestDB(t)
		customer := createTestCustomer(t, testDB)

		interaction := models.Interaction{
			Type:    models.InteractionTypeCall,
			Summary: "This is great, I love the product and the price is excellent",
		}
		assert.NoError(t, services.AddInteraction(testDB, customer.ID, &interaction))

		_, c, rec := setupEcho(http.MethodPost,
			"/api/customers/"+customer.ID+"/interactions/"+interaction.ID+"/analyze", nil)
		c.SetParamNames("id", "interactionId")
		c.SetParamValues(customer.ID, interaction.ID)

		assert.NoError(t, AnalyzeInteractionHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Analysis services.SentimentResult `json:"analysis"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "positive", resp.Analysis.OverallSentiment)

		var stored models.Interaction
		testDB.First(&stored, "id = ?", interaction.ID)
		assert.NotNil(t, stored.Sentiment)
		assert.Equal(t, "positive", *stored.Sentiment)
	})

	t.Run("Unknown interaction", func(t *testing.T) {
		testDB := setupTestDB(t)
		customer := createTestCustomer(t, testDB)

		_, c, rec := setupEcho(http.MethodPost,
			"/api/customers/"+customer.ID+"/interactions/missing/analyze", nil)
		c.SetParamNames("id", "interactionId")
		c.SetParamValues(customer.ID, "missing")

		assert.NoError(t, AnalyzeInteractionHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAddCustomerNoteHandler(t *testing.T) {
	t.Run("Sanitizes markup", func(t *testing.T) {
		testDB := setupTestDB(t)
		customer := createTestCustomer(t, testDB)

		body := `{"text":"Call back <script>alert(1)</script>tomorrow"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/customers/"+customer.ID+"/notes", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c.SetParamNames("id")
		c.SetParamValues(customer.ID)

		assert.NoError(t, AddCustomerNoteHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var note models.Note
		assert.NoError(t, testDB.First(&note, "customer_id = ?", customer.ID).Error)
		assert.NotContains(t, note.Text, "<script>")
		assert.Contains(t, note.Text, "Call back")
	})
}
