// README: API server entrypoint; wires config, infra, services, and HTTP.
package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ridefare/internal/config"
	httpapi "ridefare/internal/http"
	"ridefare/internal/infra"
	"ridefare/internal/maps"
	"ridefare/internal/modules/pricing"
	"ridefare/internal/modules/promo"
	"ridefare/internal/modules/zone"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	rdb := infra.NewRedis(cfg.Redis.Addr)
	defer rdb.Close()

	cacheTTL := time.Duration(cfg.Pricing.CacheTTLSeconds) * time.Second
	ruleStore := pricing.NewStore(db, rdb, cacheTTL)
	zoneStore := zone.NewStore(db, rdb, cacheTTL)
	promoStore := promo.NewPGStore(db)

	var routes pricing.RouteEstimator
	if cfg.Maps.APIKey != "" {
		rs, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			logger.Fatal("init route service", zap.Error(err))
		}
		routes = rs
	}

	pricingService := pricing.NewService(ruleStore, zoneStore, routes, pricing.Config{
		Currency:    cfg.Pricing.Currency,
		AvgSpeedKmh: cfg.Pricing.AvgSpeedKmh,
	}, logger)
	promoService := promo.NewService(promoStore, logger)

	router := httpapi.NewRouter(pricingService, promoService, ruleStore, zoneStore, logger)

	srv := &nethttp.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
