package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"ai_crm_app_go/config"
	"ai_crm_app_go/db"
	"ai_crm_app_go/models"
	"ai_crm_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	if services.Storage == nil {
		services.Storage = services.NewLocalStorage("tmp/test_uploads")
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Lead{},
		&models.Customer{},
		&models.Note{},
		&models.Interaction{},
		&models.AuditLog{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

func createTestUser(t *testing.T, testDB *gorm.DB, role string) *models.User {
	hash, err := services.HashPassword("password123")
	assert.NoError(t, err)

	user := &models.User{
		Name:     "Test User",
		Email:    "user_" + uuid.New().String() + "@example.com",
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	assert.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestLead(t *testing.T, testDB *gorm.DB) *models.Lead {
	lead := &models.Lead{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Phone:   "+1 555 0101",
		Company: "Analytical Engines",
	}
	assert.NoError(t, services.CreateLead(testDB, lead))
	return lead
}

func createTestCustomer(t *testing.T, testDB *gorm.DB) *models.Customer {
	customer := &models.Customer{
		Name:    "Grace Hopper",
		Email:   "grace@example.com",
		Company: "Compilers Inc",
	}
	assert.NoError(t, services.CreateCustomer(testDB, customer))
	return customer
}
