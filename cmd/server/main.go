package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventtracker/internal/api"
	"eventtracker/internal/config"
	"eventtracker/internal/metrics"
	"eventtracker/internal/ratelimit"
	"eventtracker/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// Select the event store backend
	ctx := context.Background()
	var events store.EventStore
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pgStore.Close()
		logger.Info("connected to PostgreSQL")

		if err := pgStore.RunMigrations(ctx, cfg.MigrationsDir); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("database migrations applied")

		events = pgStore
	default:
		events = store.NewMemory()
		logger.Info("using in-memory event store")
	}

	// Select the rate limiter: redis-backed when REDIS_URL is set, local
	// token bucket otherwise, none when disabled by config
	var limiter ratelimit.Limiter
	if cfg.RateLimitEnabled() {
		if cfg.RedisURL != "" {
			redisLimiter, err := ratelimit.NewRedis(ctx, cfg.RedisURL, cfg.RateInterval, cfg.RateBurst, logger)
			if err != nil {
				logger.Error("failed to connect to redis", "error", err)
				os.Exit(1)
			}
			defer redisLimiter.Close()
			logger.Info("connected to Redis", "rate_limit_burst", cfg.RateBurst)
			limiter = redisLimiter
		} else {
			limiter = ratelimit.NewLocal(cfg.RateInterval, cfg.RateBurst)
		}
	} else {
		logger.Info("rate limiting disabled")
	}

	// Setup router
	m := metrics.New()
	router := api.NewRouter(events, cfg.StoreBackend, m, limiter, cfg.RateInterval, logger)

	server := &http.Server{
		Addr:         cfg.BindAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "addr", cfg.BindAddress, "store", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
