// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/alloyhq/console/backend-go/internal/api/handlers"
	"github.com/alloyhq/console/backend-go/internal/api/middleware"
	"github.com/alloyhq/console/backend-go/internal/service"
	"github.com/alloyhq/console/backend-go/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	OrderService     *service.OrderService
	DashboardService *service.DashboardService
	CostService      *service.CostService
	Documents        storage.DocumentStore
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.OrderService != nil {
			orderHandler := handlers.NewOrderHandler(services.OrderService, services.Documents)
			orderGroup := apiGroup.Group("/orders")
			{
				orderGroup.POST("", orderHandler.CreateOrder)
				orderGroup.GET("/pending", orderHandler.ListPending)
				orderGroup.GET("/in-production", orderHandler.ListInProduction)
				orderGroup.GET("/dispatch", orderHandler.ListDispatch)
				orderGroup.GET("/:id", orderHandler.GetOrder)
				orderGroup.POST("/:id/promote", orderHandler.Promote)
				orderGroup.POST("/:id/send", orderHandler.Send)
				orderGroup.POST("/:id/process", orderHandler.Process)
				orderGroup.DELETE("/:id", orderHandler.Delete)
				orderGroup.POST("/:id/document", orderHandler.UploadDocument)
				orderGroup.GET("/:id/document", orderHandler.GetDocumentURL)
			}
		}

		if services.DashboardService != nil {
			dashboardHandler := handlers.NewDashboardHandler(services.DashboardService)
			dashboardGroup := apiGroup.Group("/dashboard")
			{
				dashboardGroup.GET("/day-book", dashboardHandler.GetDayBook)
				dashboardGroup.GET("/summary", dashboardHandler.GetSummary)
			}
		}

		if services.CostService != nil {
			costHandler := handlers.NewCostHandler(services.CostService)
			costGroup := apiGroup.Group("/costs")
			{
				costGroup.GET("/categories", costHandler.GetCategories)
				costGroup.GET("/overheads", costHandler.GetOverheadValues)
				costGroup.GET("/allocations", costHandler.GetAllocations)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
