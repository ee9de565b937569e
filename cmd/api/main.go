package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bazarly/storefront-backend/api/routes"
	"github.com/bazarly/storefront-backend/internal/analytics"
	"github.com/bazarly/storefront-backend/internal/cart"
	"github.com/bazarly/storefront-backend/internal/catalog"
	"github.com/bazarly/storefront-backend/pkg/config"
	"github.com/bazarly/storefront-backend/pkg/enums"
	"github.com/bazarly/storefront-backend/pkg/logger"
	"github.com/bazarly/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

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

	analyticsService, err := analytics.NewService(spoolRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	catalogClient, err := catalog.NewClient(cfg.Commerce, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	cartRepo, err := cart.NewRepository(redisClient, cfg.Cart)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart repository", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:      cartRepo,
		Products:  catalogClient,
		Analytics: analyticsService,
		Logger:    logg,
		Currency:  enums.Currency(cfg.Analytics.Currency),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, catalogClient, cartService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
