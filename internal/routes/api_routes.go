package routes

import (
	"github.com/go-chi/chi/v5"

	"skywatch/tracker/internal/api"
	"skywatch/tracker/internal/config"
	"skywatch/tracker/internal/metrics"
	"skywatch/tracker/internal/middleware"
	"skywatch/tracker/internal/services"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, cfg *config.Config, metricsReg *metrics.MetricsRegistry,
	liveSvc *services.LiveFlightsService, flightsSvc *services.FlightsService,
	statsSvc *services.StatisticsService, jobsHandler *api.JobsHandler) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.MetricsMiddleware(metricsReg))

		// Read endpoints are public
		v1.Get("/flights/live", api.LiveFlightsHandler(liveSvc))
		v1.Get("/flights", api.FlightSearchHandler(flightsSvc))
		v1.Get("/flights/active", api.ActiveFlightsHandler(flightsSvc))
		v1.Get("/flights/{icao24}", api.FlightDetailHandler(flightsSvc))
		v1.Get("/flights/{icao24}/history", api.FlightHistoryHandler(flightsSvc))
		v1.Get("/statistics", api.StatisticsHandler(statsSvc))

		// Triggers that write data or spend upstream quota need a token
		v1.Group(func(protected chi.Router) {
			protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

			protected.Post("/refresh", jobsHandler.TriggerRefresh())
			protected.Post("/jobs/statistics", jobsHandler.TriggerStatistics())
			protected.Post("/jobs/retention", jobsHandler.TriggerRetention())
		})
	})
}
