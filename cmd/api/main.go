package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/veranievas/floralia-backend/api/controllers"
	"github.com/veranievas/floralia-backend/api/routes"
	"github.com/veranievas/floralia-backend/internal/catalog"
	"github.com/veranievas/floralia-backend/internal/checkout"
	"github.com/veranievas/floralia-backend/internal/coupons"
	"github.com/veranievas/floralia-backend/internal/favorites"
	"github.com/veranievas/floralia-backend/internal/orders"
	"github.com/veranievas/floralia-backend/internal/payments"
	"github.com/veranievas/floralia-backend/internal/settings"
	mpwebhook "github.com/veranievas/floralia-backend/internal/webhooks/mercadopago"
	"github.com/veranievas/floralia-backend/pkg/config"
	"github.com/veranievas/floralia-backend/pkg/db"
	"github.com/veranievas/floralia-backend/pkg/logger"
	"github.com/veranievas/floralia-backend/pkg/mercadopago"
	"github.com/veranievas/floralia-backend/pkg/metrics"
	"github.com/veranievas/floralia-backend/pkg/migrate"
	"github.com/veranievas/floralia-backend/pkg/redis"
	"github.com/veranievas/floralia-backend/pkg/storage/gcs"
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

	mpClient, err := mercadopago.NewClient(context.Background(), cfg.MercadoPago, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap mercado pago client", err)
		os.Exit(1)
	}

	probes := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	var gcsClient *gcs.Client
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs client", err)
			os.Exit(1)
		}
		defer func() {
			if err := gcsClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing gcs client", err)
			}
		}()
		probes["gcs"] = gcsClient
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	defaultTaxRate, err := decimal.NewFromString(cfg.Checkout.DefaultTaxRate)
	if err != nil {
		logg.Error(context.Background(), "invalid default tax rate", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	couponsRepo := coupons.NewRepository(dbClient.DB())
	favoritesRepo := favorites.NewRepository(dbClient.DB())
	settingsRepo := settings.NewRepository(dbClient.DB())

	settingsService, err := settings.NewService(settingsRepo, dbClient, defaultTaxRate)
	requireService(logg, "settings", err)

	couponsService, err := coupons.NewService(couponsRepo, coupons.Options{
		Percent: decimal.NewFromInt(int64(cfg.Checkout.WelcomeCouponPercent)),
		TTL:     cfg.Checkout.WelcomeCouponTTL,
	})
	requireService(logg, "coupons", err)

	catalogService, err := catalog.NewService(catalogRepo)
	requireService(logg, "catalog", err)

	checkoutService, err := checkout.NewService(
		dbClient, ordersRepo, catalogRepo, couponsService, settingsService,
		mpClient, checkoutMetrics, logg,
	)
	requireService(logg, "checkout", err)

	paymentsService, err := payments.NewService(dbClient, ordersRepo, mpClient, checkoutMetrics, logg)
	requireService(logg, "payments", err)

	var photoStorage orders.PhotoStorage
	if gcsClient != nil {
		photoStorage = gcsClient
	}
	ordersService, err := orders.NewService(ordersRepo, dbClient, photoStorage, cfg.GCS.BucketName, logg)
	requireService(logg, "orders", err)

	favoritesService, err := favorites.NewService(favoritesRepo, catalogRepo)
	requireService(logg, "favorites", err)

	webhookService, err := mpwebhook.NewService(
		dbClient, ordersRepo, couponsRepo, mpClient, redisClient, checkoutMetrics, logg,
	)
	requireService(logg, "webhook", err)

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
		Handler: routes.NewRouter(cfg, logg, registry, httpMetrics, redisClient, mpClient, probes, routes.Services{
			Catalog:   catalogService,
			Checkout:  checkoutService,
			Payments:  paymentsService,
			Coupons:   couponsService,
			Settings:  settingsService,
			Favorites: favoritesService,
			Orders:    ordersService,
			Webhook:   webhookService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+name+" service", err)
		os.Exit(1)
	}
}
