package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leviwiederhold/forman/api/routes"
	"github.com/leviwiederhold/forman/internal/customitems"
	"github.com/leviwiederhold/forman/internal/profiles"
	"github.com/leviwiederhold/forman/internal/quotes"
	"github.com/leviwiederhold/forman/internal/ratecards"
	"github.com/leviwiederhold/forman/internal/reports"
	"github.com/leviwiederhold/forman/pkg/auth"
	"github.com/leviwiederhold/forman/pkg/config"
	"github.com/leviwiederhold/forman/pkg/db"
	"github.com/leviwiederhold/forman/pkg/logger"
	"github.com/leviwiederhold/forman/pkg/metrics"
	"github.com/leviwiederhold/forman/pkg/migrate"
	"github.com/leviwiederhold/forman/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
		Fields:      map[string]any{"env": cfg.App.Env},
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

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
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pricingMetrics := metrics.NewPricingMetrics(registry)

	rateCardsRepo := ratecards.NewRepository(dbClient.DB())
	customItemsRepo := customitems.NewRepository(dbClient.DB())
	profilesRepo := profiles.NewRepository(dbClient.DB())
	quotesRepo := quotes.NewRepository(dbClient.DB())

	rateCardService, err := ratecards.NewService(rateCardsRepo)
	requireService(logg, "rate card", err)
	customItemService, err := customitems.NewService(customItemsRepo)
	requireService(logg, "custom item", err)
	profileService, err := profiles.NewService(profilesRepo, cfg.Quotes.TrialPeriod())
	requireService(logg, "profile", err)
	quoteService, err := quotes.NewService(quotes.Deps{
		Tx:           dbClient,
		Repo:         quotesRepo,
		Rates:        rateCardService,
		SavedItems:   customItemService,
		ItemWriter:   customItemsRepo,
		Entitlements: profileService,
		Deposits:     profileService,
		Metrics:      pricingMetrics,
		Logger:       logg,
	}, quotes.OptionsFromConfig(cfg.Quotes, cfg.FeatureFlags))
	requireService(logg, "quote", err)
	reportsService, err := reports.NewService(quotesRepo, rateCardsRepo, cfg.Quotes.DashboardMarginPct)
	requireService(logg, "reports", err)

	tokens, err := auth.NewManager(cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "invalid jwt configuration", err)
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
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			tokens,
			dbClient,
			redisClient,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			rateCardService,
			customItemService,
			quoteService,
			profileService,
			reportsService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
