// backend-go/internal/api/handlers/dashboard_handler.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/alloyhq/console/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDayBook returns the day's orders grouped by dealer; defaults to today
func (h *DashboardHandler) GetDayBook(c *gin.Context) {
	day := time.Now()
	if s := strings.TrimSpace(c.Query("date")); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	book, err := h.dashboardService.DayBook(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// GetSummary returns the monthly overview cards
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
