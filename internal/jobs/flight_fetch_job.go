package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"skywatch/tracker/internal/metrics"
	"skywatch/tracker/internal/providers"
	"skywatch/tracker/internal/services"
)

// FlightFetchJob periodically pulls the full state feed and persists it
type FlightFetchJob struct {
	ingest  *services.IngestService
	metrics *metrics.MetricsRegistry
}

// NewFlightFetchJob creates a new flight fetch job instance
func NewFlightFetchJob(ingest *services.IngestService, reg *metrics.MetricsRegistry) *FlightFetchJob {
	return &FlightFetchJob{ingest: ingest, metrics: reg}
}

// Run executes one fetch-and-persist cycle
func (j *FlightFetchJob) Run(ctx context.Context) error {
	start := time.Now()
	log.Printf("[FlightFetchJob] Starting fetch cycle at %s", start.Format(time.RFC3339))

	result, err := j.ingest.RunCycle(ctx)
	if err != nil {
		log.Printf("[FlightFetchJob] Fetch cycle failed: %v", err)
		if j.metrics != nil {
			j.metrics.IngestCyclesTotal.WithLabelValues("error").Inc()
			var pe *providers.ProviderError
			if errors.As(err, &pe) {
				j.metrics.UpstreamErrorsTotal.WithLabelValues(pe.Code).Inc()
			}
		}
		return err
	}

	if j.metrics != nil {
		j.metrics.IngestCyclesTotal.WithLabelValues("success").Inc()
		j.metrics.StatesIngestedTotal.Add(float64(result.PositionsCreated))
		j.metrics.JobDuration.WithLabelValues("flight_fetch").Observe(time.Since(start).Seconds())
	}

	log.Printf("[FlightFetchJob] Completed in %s. Fetched: %d, Flights: %d, Positions: %d",
		time.Since(start).Truncate(time.Millisecond),
		result.StatesFetched, result.FlightsUpdated, result.PositionsCreated)
	return nil
}

// RunScheduled runs the fetch job on a fixed interval until ctx is done
func (j *FlightFetchJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	if err := j.Run(ctx); err != nil {
		log.Printf("[FlightFetchJob] Error in initial run: %v", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				log.Printf("[FlightFetchJob] Error in scheduled run: %v", err)
			}
		case <-ctx.Done():
			log.Printf("[FlightFetchJob] Shutting down scheduled fetch")
			return
		}
	}
}
