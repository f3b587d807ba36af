package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appLogger "github.com/FACorreiaa/go-itinerary-compare/app/logger"
	"github.com/FACorreiaa/go-itinerary-compare/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-compare/app/tracer"
	"github.com/FACorreiaa/go-itinerary-compare/config"
	"github.com/FACorreiaa/go-itinerary-compare/internal/container"
	"github.com/FACorreiaa/go-itinerary-compare/internal/router"
)

// @title        Itinerary Compare API
// @version      1.0
// @description  Scores a desired and a proposed day itinerary for congestion and satisfaction.
// @BasePath     /api/v1
func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.New(cfg.Mode, os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	providers, err := tracer.InitTracingAndMetrics("itinerary-compare")
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to build application", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	if _, err := c.Store.Snapshot(ctx); err != nil {
		// Requests will retry the load; the server still starts.
		logger.Warn("Reference data not loaded at startup", slog.Any("error", err))
	}

	if cfg.Export.Enabled && len(cfg.Export.Users) > 0 {
		if _, err := c.Exporter.Export(ctx, cfg.Export.Users); err != nil {
			logger.Warn("Route summary export failed", slog.Any("error", err))
		}
	}

	routerConfig := &router.Config{
		ComparisonHandler: c.ComparisonHandler,
		PlanHandler:       c.PlanHandler,
		Logger:            logger,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		Timeout:           cfg.Server.Timeout,
		RateLimit:         cfg.Server.RateLimit,
	}
	if cfg.Handlers.Prometheus.Enabled {
		routerConfig.MetricsHandler = providers.Handler
		routerConfig.MetricsPath = cfg.Handlers.Prometheus.Path
	}

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router.SetupRouter(routerConfig),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		logger.Error("Telemetry shutdown failed", slog.Any("error", err))
	}

	logger.Info("Application shut down complete.")
}
