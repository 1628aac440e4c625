package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/finance-dashboard/internal/cache"
	"github.com/SAP-F-2025/finance-dashboard/internal/config"
	"github.com/SAP-F-2025/finance-dashboard/internal/events"
	"github.com/SAP-F-2025/finance-dashboard/internal/handlers"
	"github.com/SAP-F-2025/finance-dashboard/internal/repositories/memory"
	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
	"github.com/SAP-F-2025/finance-dashboard/internal/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize Redis (if configured). The badge counter falls back to memory without it.
	var cacheManager *cache.CacheManager
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Warn("Failed to initialize Redis, badge counter stays in memory", "error", err)
		} else {
			cacheManager = cache.NewCacheManager(redisClient)
		}
	}

	// Initialize repositories with the seed roster
	repoManager := memory.NewRepositoryManager(memory.RepositoryConfig{})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Event bus feeding the notification stream
	bus := events.NewWatermillBus(slogLogger, cfg.EventBuffer)

	// Initialize validator
	validator := validator.New()

	// Initialize services
	smConfig := services.DefaultServiceManagerConfig()
	smConfig.Notification = services.NotificationConfig{
		Display: cfg.NotificationDisplay,
		Exit:    cfg.NotificationExit,
	}
	smConfig.Task = services.TaskConfig{
		ImportDuration: cfg.ImportDuration,
		ExportDuration: cfg.ExportDuration,
		ImportMaxBytes: cfg.ImportMaxBytes,
	}
	smConfig.BadgeInterval = cfg.BadgeInterval

	badgeStore := cache.NewBadgeStore(cacheManager, cfg.BadgeInitial)
	serviceManager := services.NewServiceManager(repoManager.GetRepository(), slogLogger, validator, bus, badgeStore, smConfig)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Badge ticker runs until shutdown
	badgeCtx, stopBadge := context.WithCancel(context.Background())
	go serviceManager.Badge().Run(badgeCtx)

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, bus, logger)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "redis", cacheManager != nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Open event streams end when the bus closes, so close it before waiting on the server.
	stopBadge()
	if err := bus.Close(); err != nil {
		logger.Warn("Failed to close event bus", "error", err)
	}

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	if err := repoManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown repositories", "error", err)
	}

	if cacheManager != nil {
		if err := cacheManager.Close(); err != nil {
			logger.Warn("Failed to close Redis", "error", err)
		}
	}

	logger.Info("Server exited")
}
