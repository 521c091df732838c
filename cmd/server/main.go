// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alloyhq/console/backend-go/internal/api"
	"github.com/alloyhq/console/backend-go/internal/cache"
	"github.com/alloyhq/console/backend-go/internal/config"
	"github.com/alloyhq/console/backend-go/internal/ops"
	"github.com/alloyhq/console/backend-go/internal/repository/postgres"
	"github.com/alloyhq/console/backend-go/internal/service"
	"github.com/alloyhq/console/backend-go/internal/storage"
	"github.com/alloyhq/console/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	dashCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("dashboard cache unavailable, running without it")
		dashCache = cache.NewNoopDashboardCache()
	}

	var documents storage.DocumentStore = storage.NewNoopStore()
	if cfg.Storage.Enabled {
		store, err := storage.NewMinioStore(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to initialize document storage")
		}
		documents = store
	}

	orderRepo := postgres.NewOrderRepository(db)
	masterRepo := postgres.NewMasterRepository(db)
	costRepo := postgres.NewCostRepository(db)

	services := &api.Services{
		OrderService:     service.NewOrderService(orderRepo, masterRepo, dashCache),
		DashboardService: service.NewDashboardService(orderRepo, masterRepo, dashCache, cfg.App.LowStockThreshold),
		CostService:      service.NewCostService(costRepo),
		Documents:        documents,
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// health/readiness listener for the load balancer
	go func() {
		if err := ops.Serve(":"+cfg.Server.OpsPort, db.DB); err != nil {
			logger.Log.Error().Err(err).Msg("ops listener stopped")
		}
	}()

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
