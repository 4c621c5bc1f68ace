package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/dariomunoz/forkline-backend/api/routes"
	"github.com/dariomunoz/forkline-backend/internal/feeanalytics"
	"github.com/dariomunoz/forkline-backend/internal/feeconfig"
	"github.com/dariomunoz/forkline-backend/internal/pricing"
	"github.com/dariomunoz/forkline-backend/internal/settlement"
	"github.com/dariomunoz/forkline-backend/pkg/config"
	"github.com/dariomunoz/forkline-backend/pkg/db"
	"github.com/dariomunoz/forkline-backend/pkg/instance"
	"github.com/dariomunoz/forkline-backend/pkg/logger"
	"github.com/dariomunoz/forkline-backend/pkg/metrics"
	"github.com/dariomunoz/forkline-backend/pkg/migrate"
	"github.com/dariomunoz/forkline-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	defer func() {
		if err := multierr.Append(dbClient.Close(), redisClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing dependencies", err)
		}
	}()

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	feeConfigService, err := feeconfig.NewService(feeconfig.ServiceParams{
		Repo:     feeconfig.NewRepository(dbClient.DB()),
		Cache:    redisClient,
		CacheTTL: cfg.Fees.ConfigCacheTTL,
		Metrics:  engineMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create fee config service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(pricing.ServiceParams{
		Resolver: feeConfigService,
		Metrics:  engineMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	settlementRepo := settlement.NewRepository(dbClient.DB())
	settlementService, err := settlement.NewService(settlement.ServiceParams{
		Repo:     settlementRepo,
		Resolver: feeConfigService,
		Metrics:  engineMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement service", err)
		os.Exit(1)
	}

	analyticsService, err := feeanalytics.NewService(feeanalytics.ServiceParams{
		Source: settlementRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Registry:    registry,
			HTTPMetrics: httpMetrics,
			DBPinger:    dbClient,
			RedisPinger: redisClient,
			Limiter:     redisClient,
			Quotes:      pricingService,
			Settlements: settlementService,
			FeeConfigs:  feeConfigService,
			Analytics:   analyticsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
