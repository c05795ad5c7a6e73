package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the application.
type Config struct {
	BindAddress   string
	StoreBackend  string
	DatabaseURL   string
	RedisURL      string
	RateInterval  time.Duration
	RateBurst     int
	LogLevel      slog.Level
	MigrationsDir string
}

// Load reads configuration from environment variables. Every setting has a
// default; only a postgres backend without DATABASE_URL is an error.
func Load() (*Config, error) {
	backend := getEnv("STORE_BACKEND", BackendMemory)
	if backend != BackendMemory && backend != BackendPostgres {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMemory, BackendPostgres, backend)
	}

	dbURL := getEnv("DATABASE_URL", "")
	if backend == BackendPostgres && dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=%s", BackendPostgres)
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	return &Config{
		BindAddress:   getEnv("BIND_ADDRESS", "127.0.0.1:8080"),
		StoreBackend:  backend,
		DatabaseURL:   dbURL,
		RedisURL:      getEnv("REDIS_URL", ""),
		RateInterval:  time.Duration(getEnvInt("RATE_LIMIT_SECONDS", 5)) * time.Second,
		RateBurst:     getEnvInt("RATE_LIMIT_BURST", 10),
		LogLevel:      level,
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
	}, nil
}

// RateLimitEnabled reports whether the rate limiting middleware should be
// installed at all. A non-positive burst or interval disables it.
func (c *Config) RateLimitEnabled() bool {
	return c.RateBurst > 0 && c.RateInterval > 0
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", s)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
