package main

import (
	"log"
	"time"

	"ai_crm_app_go/config"
	"ai_crm_app_go/db"
	"ai_crm_app_go/handlers"
	"ai_crm_app_go/middleware"
	"ai_crm_app_go/models"
	"ai_crm_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Lead{},
		&models.Customer{},
		&models.Note{},
		&models.Interaction{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize recording storage (R2 or local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	e.Use(middleware.APIRateLimiter.Middleware())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.POST("/api/auth/login", handlers.LoginHandler, middleware.LoginRateLimiter.Middleware())

	// Protected routes
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	api.Use(middleware.AuditContext())
	{
		api.POST("/auth/logout", handlers.LogoutHandler)
		api.GET("/auth/me", handlers.GetCurrentUserHandler)
		api.POST("/auth/register", handlers.RegisterHandler, middleware.RequireRole(models.RoleAdmin))

		// Lead routes
		leads := api.Group("/leads")
		{
			leads.GET("", handlers.ListLeadsHandler)
			leads.POST("", handlers.CreateLeadHandler)
			leads.GET("/import/template", handlers.LeadImportTemplateHandler)
			leads.POST("/import", handlers.ImportLeadsHandler, middleware.ImportRateLimiter.Middleware())
			leads.GET("/export", handlers.ExportLeadsHandler)
			leads.GET("/:id", handlers.GetLeadHandler)
			leads.PUT("/:id", handlers.UpdateLeadHandler)
			leads.DELETE("/:id", handlers.DeleteLeadHandler, middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			leads.PUT("/:id/status", handlers.UpdateLeadStatusHandler)
			leads.POST("/:id/notes", handlers.AddLeadNoteHandler)
			leads.POST("/:id/convert", handlers.ConvertLeadHandler)
		}

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.GET("", handlers.ListCustomersHandler)
			customers.POST("", handlers.CreateCustomerHandler)
			customers.GET("/:id", handlers.GetCustomerHandler)
			customers.PUT("/:id", handlers.UpdateCustomerHandler)
			customers.DELETE("/:id", handlers.DeleteCustomerHandler, middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			customers.POST("/:id/notes", handlers.AddCustomerNoteHandler)
			customers.GET("/:id/interactions", handlers.ListInteractionsHandler)
			customers.POST("/:id/interactions", handlers.AddInteractionHandler)
			customers.POST("/:id/interactions/:interactionId/analyze", handlers.AnalyzeInteractionHandler)
			customers.POST("/:id/interactions/:interactionId/recording", handlers.UploadRecordingHandler)
			customers.GET("/:id/interactions/:interactionId/recording", handlers.GetRecordingURLHandler)
		}

		// Assistant routes (script, sentiment, email, speech)
		assistant := api.Group("/assistant")
		assistant.Use(middleware.AssistantRateLimiter.Middleware())
		{
			assistant.POST("/script", handlers.GenerateScriptHandler)
			assistant.POST("/script/pdf", handlers.GenerateScriptPDFHandler)
			assistant.POST("/sentiment", handlers.AnalyzeSentimentHandler)
			assistant.POST("/email", handlers.GenerateEmailHandler)
			assistant.POST("/speech", handlers.SpeechHandler)
			assistant.GET("/voices", handlers.VoicePresetsHandler)
		}

		// Analytics routes
		api.GET("/analytics/dashboard", handlers.DashboardHandler)
		api.GET("/analytics/calls", handlers.CallAnalyticsHandler)

		// Audit trail (admins only)
		api.GET("/audit/:resourceType/:resourceId", handlers.ResourceAuditHistoryHandler,
			middleware.RequireRole(models.RoleAdmin))
	}

	// Start background cleanup job (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
