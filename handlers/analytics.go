package handlers

import (
	"net/http"
	"time"

	"ai_crm_app_go/db"
	"ai_crm_app_go/models"

	"github.com/labstack/echo/v4"
)

// DashboardStats aggregates the pipeline state for the dashboard
type DashboardStats struct {
	TotalLeads       int64            `json:"total_leads"`
	LeadsByStatus    map[string]int64 `json:"leads_by_status"`
	TotalCustomers   int64            `json:"total_customers"`
	ActiveCustomers  int64            `json:"active_customers"`
	ConversionRate   float64          `json:"conversion_rate"`
	NewLeadsThisWeek int64            `json:"new_leads_this_week"`
	NewLeadsByMonth  map[string]int64 `json:"new_leads_by_month"`
	RecentLeads      []models.Lead    `json:"recent_leads"`

	RecentInteractions []models.Interaction `json:"recent_interactions"`
}

// CallStats aggregates recorded interactions
type CallStats struct {
	TotalInteractions    int64            `json:"total_interactions"`
	InteractionsByType   map[string]int64 `json:"interactions_by_type"`
	CallsBySentiment     map[string]int64 `json:"calls_by_sentiment"`
	AverageCallMinutes   float64          `json:"average_call_minutes"`
	InteractionsThisWeek int64            `json:"interactions_this_week"`
}

type statusCount struct {
	Status string
	Count  int64
}

// DashboardHandler returns pipeline statistics
func DashboardHandler(c echo.Context) error {
	stats := DashboardStats{
		LeadsByStatus:   map[string]int64{},
		NewLeadsByMonth: map[string]int64{},
	}

	if err := db.DB.Model(&models.Lead{}).Where("is_deleted = ?", false).Count(&stats.TotalLeads).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}

	var byStatus []statusCount
	err := db.DB.Model(&models.Lead{}).
		Select("status, COUNT(*) as count").
		Where("is_deleted = ?", false).
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}
	for _, row := range byStatus {
		stats.LeadsByStatus[row.Status] = row.Count
	}

	db.DB.Model(&models.Customer{}).Where("is_deleted = ?", false).Count(&stats.TotalCustomers)
	db.DB.Model(&models.Customer{}).
		Where("is_deleted = ? AND status = ?", false, models.CustomerStatusActive).
		Count(&stats.ActiveCustomers)

	if stats.TotalLeads > 0 {
		stats.ConversionRate = float64(stats.LeadsByStatus[models.LeadStatusConverted]) / float64(stats.TotalLeads) * 100
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	db.DB.Model(&models.Lead{}).
		Where("is_deleted = ? AND created_at >= ?", false, weekAgo).
		Count(&stats.NewLeadsThisWeek)

	var byMonth []struct {
		Month string
		Count int64
	}
	sixMonthsAgo := time.Now().AddDate(0, -6, 0)
	err = db.DB.Model(&models.Lead{}).
		Select("strftime('%Y-%m', created_at) as month, COUNT(*) as count").
		Where("is_deleted = ? AND created_at >= ?", false, sixMonthsAgo).
		Group("month").
		Scan(&byMonth).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}
	for _, row := range byMonth {
		stats.NewLeadsByMonth[row.Month] = row.Count
	}

	if err := db.DB.Where("is_deleted = ?", false).
		Order("created_at DESC").Limit(5).
		Find(&stats.RecentLeads).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}

	if err := db.DB.Order("occurred_at DESC").Limit(5).
		Find(&stats.RecentInteractions).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}

	return c.JSON(http.StatusOK, stats)
}

// CallAnalyticsHandler returns interaction statistics
func CallAnalyticsHandler(c echo.Context) error {
	stats := CallStats{
		InteractionsByType: map[string]int64{},
		CallsBySentiment:   map[string]int64{},
	}

	if err := db.DB.Model(&models.Interaction{}).Count(&stats.TotalInteractions).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load call analytics"})
	}

	var byType []struct {
		Type  string
		Count int64
	}
	err := db.DB.Model(&models.Interaction{}).
		Select("type, COUNT(*) as count").
		Group("type").
		Scan(&byType).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load call analytics"})
	}
	for _, row := range byType {
		stats.InteractionsByType[row.Type] = row.Count
	}

	var bySentiment []struct {
		Sentiment *string
		Count     int64
	}
	err = db.DB.Model(&models.Interaction{}).
		Select("sentiment, COUNT(*) as count").
		Where("type = ? AND sentiment IS NOT NULL", models.InteractionTypeCall).
		Group("sentiment").
		Scan(&bySentiment).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load call analytics"})
	}
	for _, row := range bySentiment {
		if row.Sentiment != nil {
			stats.CallsBySentiment[*row.Sentiment] = row.Count
		}
	}

	var avg *float64
	db.DB.Model(&models.Interaction{}).
		Select("AVG(duration_minutes)").
		Where("type = ? AND duration_minutes IS NOT NULL", models.InteractionTypeCall).
		Scan(&avg)
	if avg != nil {
		stats.AverageCallMinutes = *avg
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	db.DB.Model(&models.Interaction{}).
		Where("occurred_at >= ?", weekAgo).
		Count(&stats.InteractionsThisWeek)

	return c.JSON(http.StatusOK, stats)
}
