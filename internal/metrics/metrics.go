package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the tracker
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Upstream Metrics
	UpstreamRequestsTotal prometheus.CounterVec
	UpstreamErrorsTotal   prometheus.CounterVec
	LiveFallbacksTotal    prometheus.Counter

	// Ingestion Metrics
	IngestCyclesTotal   prometheus.CounterVec
	StatesIngestedTotal prometheus.Counter

	// Job Metrics
	JobDuration          prometheus.HistogramVec
	PositionsPrunedTotal prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skywatch_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skywatch_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Upstream Metrics
		UpstreamRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_upstream_requests_total",
				Help: "Total requests sent to the flight state API by outcome",
			},
			[]string{"outcome"},
		),
		UpstreamErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_upstream_errors_total",
				Help: "Total upstream failures by error code",
			},
			[]string{"code"},
		),
		LiveFallbacksTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "skywatch_live_fallbacks_total",
				Help: "Total live queries answered from cached positions",
			},
		),

		// Ingestion Metrics
		IngestCyclesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_ingest_cycles_total",
				Help: "Total ingestion cycles by outcome",
			},
			[]string{"outcome"},
		),
		StatesIngestedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "skywatch_states_ingested_total",
				Help: "Total state vectors persisted as positions",
			},
		),

		// Job Metrics
		JobDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skywatch_job_duration_seconds",
				Help:    "Background job execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"job_name"},
		),
		PositionsPrunedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "skywatch_positions_pruned_total",
				Help: "Total position rows removed by retention sweeps",
			},
		),
	}
}
