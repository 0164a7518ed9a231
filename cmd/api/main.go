package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "todoapi/internal/adapter/http"
	"todoapi/internal/adapter/http/middleware"
	"todoapi/internal/adapter/http/routes"
	"todoapi/internal/adapter/telemetry"
	"todoapi/pkg/config"
	"todoapi/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	appLogger, err := logger.New(cfg.Environment)

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer appLogger.Sync()

	tel, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "todoapi",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	metrics := telemetry.NewAppMetrics(tel.PrometheusRegistry)

	container, err := api.NewContainer(ctx, cfg, appLogger)

	if err != nil {
		appLogger.Fatal("Failed to build container", zap.Error(err))
	}

	store, closeStore, err := api.NewRateLimiterStore(cfg)

	if err != nil {
		appLogger.Fatal("Failed to build rate limiter store", zap.Error(err))
	}

	limiter := middleware.NewRateLimiter(store, cfg.RateLimitConfigs, metrics)

	router := routes.SetupRouter(routes.HandlersConfig{
		AuthHandler: container.AuthHandler,
		TodoHandler: container.TodoHandler,
		Tokens:      container.Tokens,
	}, metrics, appLogger, cfg, limiter)

	srv := api.NewServer(cfg.Port, router)

	go func() {
		appLogger.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := api.Shutdown(shutdownCtx, srv, container); err != nil {
		appLogger.Error("Shutdown error", zap.Error(err))
	}

	if closeStore != nil {
		closeStore()
	}

	tel.Shutdown(shutdownCtx)
}
