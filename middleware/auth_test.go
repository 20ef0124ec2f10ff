package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai_crm_app_go/db"
	"ai_crm_app_go/models"
	"ai_crm_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthMiddlewareTest(t *testing.T) (*gorm.DB, *models.User, *models.Session) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, testDB.AutoMigrate(&models.User{}, &models.Session{}))
	db.DB = testDB

	user := &models.User{
		Name:     "Agent",
		Email:    "agent@test.com",
		Password: "hash",
		Role:     models.RoleAgent,
		IsActive: true,
	}
	assert.NoError(t, testDB.Create(user).Error)

	session, err := services.CreateSession(testDB, user.ID, "127.0.0.1", "TestAgent")
	assert.NoError(t, err)

	return testDB, user, session
}

func runRequireAuth(token string, useCookie bool) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		if useCookie {
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		} else {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireAuth()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, c, err
}

func TestRequireAuth(t *testing.T) {
	t.Run("Bearer token", func(t *testing.T) {
		_, _, session := setupAuthMiddlewareTest(t)

		rec, c, err := runRequireAuth(session.Token, false)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, GetCurrentUser(c))
		assert.Equal(t, "agent@test.com", GetCurrentUser(c).Email)
	})

	t.Run("Session cookie", func(t *testing.T) {
		_, _, session := setupAuthMiddlewareTest(t)

		rec, _, err := runRequireAuth(session.Token, true)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Missing token", func(t *testing.T) {
		setupAuthMiddlewareTest(t)

		_, _, err := runRequireAuth("", false)
		assert.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("Invalid token", func(t *testing.T) {
		setupAuthMiddlewareTest(t)

		_, _, err := runRequireAuth("bogus", false)
		assert.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("Expired session", func(t *testing.T) {
		testDB, _, session := setupAuthMiddlewareTest(t)
		testDB.Model(session).Update("expires_at", time.Now().Add(-time.Hour))

		_, _, err := runRequireAuth(session.Token, false)
		assert.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("Inactive user", func(t *testing.T) {
		testDB, user, session := setupAuthMiddlewareTest(t)
		testDB.Model(user).Update("is_active", false)

		_, _, err := runRequireAuth(session.Token, false)
		assert.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	makeContext := func(user *models.User) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if user != nil {
			c.Set(ContextKeyUser, user)
		}
		return c
	}

	handler := RequireRole(models.RoleAdmin, models.RoleManager)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("Allowed role", func(t *testing.T) {
		c := makeContext(&models.User{Role: models.RoleManager})
		assert.NoError(t, handler(c))
	})

	t.Run("Forbidden role", func(t *testing.T) {
		c := makeContext(&models.User{Role: models.RoleAgent})
		err := handler(c)
		assert.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, he.Code)
	})

	t.Run("No user in context", func(t *testing.T) {
		c := makeContext(nil)
		err := handler(c)
		assert.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}
