package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mlb_pitchers/report/internal/app"
	"mlb_pitchers/report/internal/config"
	"mlb_pitchers/report/internal/logging"
	"mlb_pitchers/report/internal/metrics"
	"mlb_pitchers/report/internal/scheduler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Setup logger
	level := logging.Setup(os.Stdout, cfg.AppEnv, cfg.LogLevel)

	log.Info().Msg("Starting MLB strikeout report worker")
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", level.String()).
		Int("season", cfg.Season).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize report application")
	}
	defer a.Close()

	// Start metrics HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           newRouter(a),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Int("port", cfg.MetricsPort).Msg("Starting metrics server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	job := func(ctx context.Context, date string) error {
		_, err := a.Generate(ctx, date, true)
		return err
	}

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg.RefreshCron, cfg.Location(), job)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// Initial refresh so the page exists before the first tick
	log.Info().Msg("Running initial report refresh...")
	go sched.RunNow(ctx)

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Metrics server shutdown failed")
	}

	log.Info().Msg("Worker shutdown complete")
}

// newRouter serves Prometheus metrics and a health check
func newRouter(a *app.App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := a.Health(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if status["status"] != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	})

	return r
}
