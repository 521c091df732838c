// backend-go/internal/api/handlers/cost_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/alloyhq/console/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type CostHandler struct {
	costService *service.CostService
}

func NewCostHandler(costService *service.CostService) *CostHandler {
	return &CostHandler{costService: costService}
}

// GetCategories lists the cost buckets
func (h *CostHandler) GetCategories(c *gin.Context) {
	categories, err := h.costService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetOverheadValues lists the month's recorded actuals
func (h *CostHandler) GetOverheadValues(c *gin.Context) {
	year, month := parseYearMonth(c)

	values, err := h.costService.ListOverheadValues(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, values)
}

// GetAllocations returns the month's per-unit overhead allocations
func (h *CostHandler) GetAllocations(c *gin.Context) {
	year, month := parseYearMonth(c)

	allocations, err := h.costService.PerUnitAllocations(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, allocations)
}

func parseYearMonth(c *gin.Context) (int, int) {
	now := time.Now()
	year := parsePositiveIntWithDefault(c.Query("year"), now.Year())
	month := parsePositiveIntWithDefault(c.Query("month"), int(now.Month()))
	return year, month
}
