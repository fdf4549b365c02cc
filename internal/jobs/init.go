package jobs

import (
	"context"

	"skywatch/tracker/internal/config"
	"skywatch/tracker/internal/metrics"
	"skywatch/tracker/internal/services"
)

// JobSet holds the background jobs so handlers can trigger them manually
type JobSet struct {
	FlightFetch *FlightFetchJob
	Statistics  *StatisticsJob
	Retention   *RetentionJob
}

// InitializeJobs initializes and starts all background jobs
func InitializeJobs(
	ctx context.Context,
	cfg *config.Config,
	ingest *services.IngestService,
	statistics *services.StatisticsService,
	retention *services.RetentionService,
	reg *metrics.MetricsRegistry,
) *JobSet {
	set := &JobSet{
		FlightFetch: NewFlightFetchJob(ingest, reg),
		Statistics:  NewStatisticsJob(statistics, reg),
		Retention:   NewRetentionJob(retention, reg),
	}

	go set.FlightFetch.RunScheduled(ctx, cfg.FetchInterval)
	go set.Statistics.RunScheduled(ctx, cfg.StatisticsInterval)
	go set.Retention.RunScheduled(ctx, cfg.RetentionInterval)

	return set
}
