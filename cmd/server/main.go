package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/vendor-onboarding/config"
	"github.com/ikkim/vendor-onboarding/internal/app/controller"
	"github.com/ikkim/vendor-onboarding/internal/app/repository"
	"github.com/ikkim/vendor-onboarding/internal/app/service"
	"github.com/ikkim/vendor-onboarding/internal/db"
	"github.com/ikkim/vendor-onboarding/internal/lock"
	"github.com/ikkim/vendor-onboarding/internal/middleware"
	"github.com/ikkim/vendor-onboarding/internal/router"
	"github.com/ikkim/vendor-onboarding/internal/scheduler"
	"github.com/ikkim/vendor-onboarding/internal/storage"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
	"github.com/ikkim/vendor-onboarding/pkg/redis"
	"github.com/ikkim/vendor-onboarding/pkg/util"
	"github.com/juju/clock"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
		Service:     "vendor-onboarding",
	})

	logger.Info("Starting vendor onboarding server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	ctx := context.Background()

	objectStorage, err := storage.NewFromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", err)
	}

	slotLocker, err := newSlotLocker(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize slot locker", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	registry, err := newTenantRegistry(cfg.Auth)
	if err != nil {
		logger.Fatal("Failed to configure auth tenants", err)
	}

	wallClock := clock.WallClock

	// Initialize repositories
	referenceRepo := repository.NewReferenceRepository(db.GetDB())
	applicationRepo := repository.NewApplicationRepository(db.GetDB())
	documentRepo := repository.NewDocumentRepository(db.GetDB())

	// Initialize services
	requirementService := service.NewRequirementService(referenceRepo)
	progressService := service.NewProgressService(requirementService, documentRepo)
	referenceService := service.NewReferenceService(referenceRepo)
	applicationService := service.NewApplicationService(applicationRepo, referenceRepo, progressService, wallClock)
	documentService := service.NewDocumentService(
		applicationRepo,
		documentRepo,
		requirementService,
		progressService,
		objectStorage,
		slotLocker,
		wallClock,
		cfg.Onboarding,
	)
	uploadService := service.NewUploadService(applicationRepo, requirementService, objectStorage, wallClock, cfg.Onboarding)

	// Initialize controllers
	referenceController := controller.NewReferenceController(referenceService)
	applicationController := controller.NewApplicationController(applicationService, progressService)
	documentController := controller.NewDocumentController(documentService)
	uploadController := controller.NewUploadController(uploadService)
	reviewController := controller.NewReviewController(applicationService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(registry)

	// Start withdrawn document purge
	purgeScheduler := scheduler.NewWithdrawnDocumentScheduler(documentService, wallClock, cfg.Scheduler)
	if err := purgeScheduler.Start(); err != nil {
		logger.Fatal("Failed to start withdrawn document scheduler", err)
	}
	defer purgeScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		referenceController,
		applicationController,
		documentController,
		uploadController,
		reviewController,
		authMiddleware,
		cfg,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": server.Addr,
			"pid":     os.Getpid(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}

// newSlotLocker picks the in-process locker for a single instance and the
// Redis locker when several instances share the database.
func newSlotLocker(cfg *config.Config) (lock.SlotLocker, error) {
	switch cfg.Onboarding.LockBackend {
	case "redis":
		client, err := redis.Init(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		return lock.NewRedisSlotLocker(client, cfg.Onboarding.LockTTL), nil
	case "local", "":
		return lock.NewLocalSlotLocker(), nil
	default:
		return nil, fmt.Errorf("unsupported slot lock backend: %s", cfg.Onboarding.LockBackend)
	}
}

func newTenantRegistry(cfg config.AuthConfig) (*util.TenantRegistry, error) {
	tenants := make([]util.Tenant, 0, len(cfg.Tenants))
	for _, t := range cfg.Tenants {
		tenants = append(tenants, util.Tenant{
			Name:     t.Name,
			Issuer:   t.Issuer,
			Secret:   []byte(t.Secret),
			Audience: t.Audience,
		})
	}
	return util.NewTenantRegistry(tenants)
}
