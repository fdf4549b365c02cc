package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds process-wide settings loaded from the environment once at
// startup. Values are read-only after Load.
type Config struct {
	AppEnv   string
	HTTPAddr string

	// Ingestion scheduling
	FetchInterval      time.Duration
	StatisticsInterval time.Duration
	RetentionInterval  time.Duration

	// Live query fallback freshness window: cached positions older than
	// this are never served as a live substitute.
	LiveFallbackWindow time.Duration

	// How long a successful live response is memoized before the upstream
	// API is asked again.
	LiveCacheTTL time.Duration

	// Positions older than this many days are swept.
	PositionRetentionDays int

	// Cache backend: "memory" (default) or "redis"
	CacheBackend string

	// Secret for the bearer tokens guarding mutating endpoints.
	JWTSecret string
}

// Load reads configuration from the environment, applying defaults that
// match the production deployment.
func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		FetchInterval:      getDuration("FETCH_INTERVAL", time.Minute),
		StatisticsInterval: getDuration("STATISTICS_INTERVAL", 24*time.Hour),
		RetentionInterval:  getDuration("RETENTION_INTERVAL", 24*time.Hour),

		LiveFallbackWindow: getDuration("LIVE_FALLBACK_WINDOW", 2*time.Hour),
		LiveCacheTTL:       getDuration("LIVE_CACHE_TTL", 15*time.Second),

		PositionRetentionDays: getInt("POSITION_RETENTION_DAYS", 30),

		CacheBackend: getEnv("CACHE_BACKEND", "memory"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
	}
}

// RetentionHorizon returns the cutoff duration derived from the configured
// retention days.
func (c Config) RetentionHorizon() time.Duration {
	return time.Duration(c.PositionRetentionDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
