package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"skywatch/tracker/internal/api"
	"skywatch/tracker/internal/common"
	"skywatch/tracker/internal/config"
	"skywatch/tracker/internal/db"
	"skywatch/tracker/internal/db/repositories"
	"skywatch/tracker/internal/jobs"
	"skywatch/tracker/internal/logging"
	"skywatch/tracker/internal/metrics"
	"skywatch/tracker/internal/middleware"
	"skywatch/tracker/internal/providers"
	"skywatch/tracker/internal/services"
)

// RegisterRoutes wires services, jobs and handlers onto the router
func RegisterRoutes(ctx context.Context, cfg *config.Config, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	// Cache backend selection
	var cache common.CacheInterface
	if cfg.CacheBackend == "redis" {
		redisCache, err := common.NewRedisCacheService()
		if err != nil {
			logging.Warn("Redis cache unavailable, falling back to in-memory", "error", err.Error())
			cache = common.NewCacheService(cfg.LiveCacheTTL, 5*time.Minute)
		} else {
			cache = redisCache
		}
	} else {
		cache = common.NewCacheService(cfg.LiveCacheTTL, 5*time.Minute)
	}

	provider := providers.NewOpenSkyProvider()

	ingestSvc := services.NewIngestService(db.PgDB, provider)
	liveSvc := services.NewLiveFlightsService(
		provider,
		repositories.NewPositionRepository(db.PgDB),
		cache,
		cfg.LiveFallbackWindow,
		cfg.LiveCacheTTL,
	)
	flightsSvc := services.NewFlightsService(db.PgDB)
	statsSvc := services.NewStatisticsService(db.PgDB)
	retentionSvc := services.NewRetentionService(db.PgDB, cfg.RetentionHorizon())

	// Setup scheduled jobs
	jobSet := jobs.InitializeJobs(ctx, cfg, ingestSvc, statsSvc, retentionSvc, metricsReg)

	// Initialize jobs handler for manual triggering
	jobsHandler := api.NewJobsHandler(ingestSvc, jobSet)

	RegisterAPIRoutes(r, cfg, metricsReg, liveSvc, flightsSvc, statsSvc, jobsHandler)

	return r
}
