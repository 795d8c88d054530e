package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lucasferri/distribuidora-backend/api/routes"
	"github.com/lucasferri/distribuidora-backend/internal/analytics"
	"github.com/lucasferri/distribuidora-backend/internal/auth"
	"github.com/lucasferri/distribuidora-backend/internal/banners"
	"github.com/lucasferri/distribuidora-backend/internal/bans"
	"github.com/lucasferri/distribuidora-backend/internal/catalog"
	"github.com/lucasferri/distribuidora-backend/internal/coupons"
	"github.com/lucasferri/distribuidora-backend/internal/discounts"
	"github.com/lucasferri/distribuidora-backend/internal/orders"
	"github.com/lucasferri/distribuidora-backend/internal/settings"
	"github.com/lucasferri/distribuidora-backend/internal/tracking"
	paglevewebhook "github.com/lucasferri/distribuidora-backend/internal/webhooks/pagleve"
	"github.com/lucasferri/distribuidora-backend/pkg/config"
	"github.com/lucasferri/distribuidora-backend/pkg/db"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
	"github.com/lucasferri/distribuidora-backend/pkg/metrics"
	"github.com/lucasferri/distribuidora-backend/pkg/migrate"
	"github.com/lucasferri/distribuidora-backend/pkg/pagleve"
	"github.com/lucasferri/distribuidora-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

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
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	gormDB := dbClient.DB()

	settingsSvc, err := settings.NewService(settings.NewRepository(gormDB))
	exitOn(logg, "settings service", err)

	couponRepo := coupons.NewRepository(gormDB)
	couponSvc, err := coupons.NewService(couponRepo)
	exitOn(logg, "coupon service", err)

	discountSvc, err := discounts.NewService(discounts.NewRepository(gormDB))
	exitOn(logg, "discount service", err)

	trackingSvc, err := tracking.NewService(tracking.NewRepository(gormDB), discountSvc, logg)
	exitOn(logg, "tracking service", err)

	catalogSvc, err := catalog.NewService(catalog.NewRepository(gormDB))
	exitOn(logg, "catalog service", err)

	bannerSvc, err := banners.NewService(banners.NewRepository(gormDB))
	exitOn(logg, "banner service", err)

	banSvc, err := bans.NewService(bans.NewRepository(gormDB))
	exitOn(logg, "ban service", err)

	analyticsSvc, err := analytics.NewService(analytics.NewRepository(gormDB))
	exitOn(logg, "analytics service", err)

	authSvc, err := auth.NewService(auth.NewRepository(gormDB), redisClient, cfg.JWT, cfg.AuthRateLimit, logg)
	exitOn(logg, "auth service", err)

	pagleveClient := pagleve.NewClient(cfg.PagLeve, cfg.App.PublicURL, logg, paymentMetrics)

	orderSvc, err := orders.NewService(
		orders.NewRepository(gormDB),
		dbClient,
		couponRepo,
		couponSvc,
		settingsSvc,
		pagleveClient,
		logg,
	)
	exitOn(logg, "order service", err)

	webhookSvc, err := paglevewebhook.NewService(orderSvc, redisClient, cfg.Webhook.IdempotencyTTL, logg, paymentMetrics)
	exitOn(logg, "webhook service", err)

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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, pagleveClient, registry, routes.Services{
			Orders:    orderSvc,
			Coupons:   couponSvc,
			Discounts: discountSvc,
			Tracking:  trackingSvc,
			Catalog:   catalogSvc,
			Banners:   bannerSvc,
			Settings:  settingsSvc,
			Bans:      banSvc,
			Analytics: analyticsSvc,
			Auth:      authSvc,
			Webhook:   webhookSvc,
		}),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func exitOn(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
