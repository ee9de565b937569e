package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bazarly/storefront-backend/internal/analytics"
	"github.com/bazarly/storefront-backend/pkg/config"
	"github.com/bazarly/storefront-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "analytics-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "analytics-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	spoolDB, err := gorm.Open(sqlite.Open(cfg.Spool.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to open analytics spool", err)
		os.Exit(1)
	}

	spoolRepo, err := analytics.NewSpoolRepository(spoolDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create spool repository", err)
		os.Exit(1)
	}
	if err := spoolRepo.Migrate(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to migrate analytics spool", err)
		os.Exit(1)
	}

	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		Repository: spoolRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics worker", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"pixel_url": cfg.Analytics.PixelURL,
	})
	logg.Info(ctx, "starting analytics worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "analytics worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "analytics worker shutting down gracefully")
}
