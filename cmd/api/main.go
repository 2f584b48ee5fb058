package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/meateat/pos-api/internal/application/service"
	"github.com/meateat/pos-api/internal/config"
	"github.com/meateat/pos-api/internal/infrastructure/database"
	"github.com/meateat/pos-api/internal/infrastructure/repository"
	"github.com/meateat/pos-api/internal/presentation/http/handler"
	"github.com/meateat/pos-api/internal/presentation/http/routes"
	"github.com/meateat/pos-api/pkg/logging"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logging.Setup(cfg.App.Env)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open the embedded database
	db, err := database.NewSQLiteDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Seed default settings
	if err := database.SeedDefaults(db, &cfg.Backup); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default settings")
	}

	// Initialize repositories
	billRepo := repository.NewBillRepository(db)
	productRepo := repository.NewProductRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	billService := service.NewBillService(billRepo)
	productService := service.NewProductService(productRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	backupService := service.NewBackupService(db, cfg.Database.Path(), settingsService)

	// Start the backup scheduler from persisted settings
	scheduler := service.NewBackupScheduler(backupService, log)
	scheduler.Start()
	defer scheduler.Stop()

	_, intervalMinutes, err := settingsService.BackupSettings(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("failed to read backup settings, scheduled backups disabled")
	} else if err := scheduler.Reschedule(intervalMinutes); err != nil {
		log.Warn().Err(err).Msg("failed to schedule backups")
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Bill:     handler.NewBillHandler(billService, settingsService),
		Product:  handler.NewProductHandler(productService),
		Settings: handler.NewSettingsHandler(settingsService),
		Backup:   handler.NewBackupHandler(backupService, settingsService, scheduler),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg: cfg,
		Log: log,
	})

	log.Info().
		Str("service", cfg.App.Name).
		Str("port", cfg.App.Port).
		Str("env", cfg.App.Env).
		Str("database", cfg.Database.Path()).
		Msg("starting server")

	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
