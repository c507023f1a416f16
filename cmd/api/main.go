package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pasarseni/pasarseni-backend/api/controllers"
	"github.com/pasarseni/pasarseni-backend/api/routes"
	cartsvc "github.com/pasarseni/pasarseni-backend/internal/cart"
	"github.com/pasarseni/pasarseni-backend/internal/catalog"
	checkoutsvc "github.com/pasarseni/pasarseni-backend/internal/checkout"
	"github.com/pasarseni/pasarseni-backend/pkg/config"
	"github.com/pasarseni/pasarseni-backend/pkg/db"
	"github.com/pasarseni/pasarseni-backend/pkg/logger"
	"github.com/pasarseni/pasarseni-backend/pkg/metrics"
	"github.com/pasarseni/pasarseni-backend/pkg/migrate"
	"github.com/pasarseni/pasarseni-backend/pkg/redis"
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

	health := map[string]controllers.Pinger{"db": dbClient}

	var slot cartsvc.DurableSlot
	switch cfg.Cart.SlotBackend {
	case "db":
		gormSlot, err := cartsvc.NewGormSlot(dbClient.DB())
		if err != nil {
			logg.Error(context.Background(), "failed to create cart slot", err)
			os.Exit(1)
		}
		slot = gormSlot
	default:
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
		health["redis"] = redisClient

		redisSlot, err := cartsvc.NewRedisSlot(redisClient, cfg.Cart.SlotTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create cart slot", err)
			os.Exit(1)
		}
		slot = redisSlot
	}

	cartService, err := cartsvc.NewService(slot, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	submitter, err := checkoutsvc.NewHTTPSubmitter(cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create order submitter", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(cartService, submitter, cfg.Checkout.CommissionRate, logg, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	cartService.Subscribe(checkoutService.CartChanged)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"slot_backend": cfg.Cart.SlotBackend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			Carts:    cartService,
			Checkout: checkoutService,
			Listings: catalog.NewRepository(dbClient.DB()),
			Health:   health,
			Registry: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
