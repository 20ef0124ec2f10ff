package handlers

import (
	"net/http"

	"ai_crm_app_go/db"
	"ai_crm_app_go/services"

	"github.com/labstack/echo/v4"
)

// ResourceAuditHistoryHandler returns the audit trail of one resource
func ResourceAuditHistoryHandler(c echo.Context) error {
	logs, err := services.GetResourceAuditHistory(db.DB, c.Param("resourceType"), c.Param("resourceId"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch audit history"})
	}
	return c.JSON(http.StatusOK, logs)
}
