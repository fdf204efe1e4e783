// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server and the seeder.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:3000"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// RedisURL enables the activity cache when non-empty,
	// e.g. "redis://localhost:6379/0".
	RedisURL string

	// ActivityCacheTTL is how long cached activities live. Defaults to 5m.
	ActivityCacheTTL time.Duration

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// RateLimitRPS is the sustained requests per second allowed per client IP.
	// Defaults to 10; 0 disables rate limiting.
	RateLimitRPS float64

	// RateLimitBurst is the per-client burst size. Defaults to 20.
	RateLimitBurst int
}

// Load reads configuration from environment variables and returns a Config.
// All problems are reported together: missing required variables and any
// malformed values appear in one joined error.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	var errs []error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("required environment variable not set: DATABASE_URL"))
	}

	ttl, err := time.ParseDuration(getEnv("ACTIVITY_CACHE_TTL", "5m"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("ACTIVITY_CACHE_TTL: %w", err))
	case ttl <= 0:
		errs = append(errs, fmt.Errorf("ACTIVITY_CACHE_TTL: must be positive, got %s", ttl))
	}
	cfg.ActivityCacheTTL = ttl

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES: %w", err))
	case maxBody <= 0:
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES: must be positive, got %d", maxBody))
	}
	cfg.MaxBodyBytes = maxBody

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil || rps < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS: must be a non-negative number, got %q", os.Getenv("RATE_LIMIT_RPS")))
	}
	cfg.RateLimitRPS = rps

	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))
	if err != nil || burst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST: must be a positive integer, got %q", os.Getenv("RATE_LIMIT_BURST")))
	}
	cfg.RateLimitBurst = burst

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// SlogLevel converts LogLevel to a slog.Level, falling back to info for
// unrecognised values.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
