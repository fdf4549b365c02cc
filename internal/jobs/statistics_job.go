package jobs

import (
	"context"
	"log"
	"time"

	"skywatch/tracker/internal/metrics"
	"skywatch/tracker/internal/services"
)

// StatisticsJob rolls up the previous day's traffic once a day
type StatisticsJob struct {
	statistics *services.StatisticsService
	metrics    *metrics.MetricsRegistry
}

// NewStatisticsJob creates a new statistics job instance
func NewStatisticsJob(statistics *services.StatisticsService, reg *metrics.MetricsRegistry) *StatisticsJob {
	return &StatisticsJob{statistics: statistics, metrics: reg}
}

// Run generates the rollup for yesterday (UTC). The aggregation is
// idempotent, so an extra run after a restart just rewrites the same row.
func (j *StatisticsJob) Run(ctx context.Context) error {
	return j.RunForDate(ctx, time.Now().UTC().AddDate(0, 0, -1))
}

// RunForDate generates the rollup for a specific date, for backfills and
// the manual trigger endpoint.
func (j *StatisticsJob) RunForDate(ctx context.Context, date time.Time) error {
	start := time.Now()
	log.Printf("[StatisticsJob] Generating statistics for %s", date.Format("2006-01-02"))

	stat, err := j.statistics.GenerateForDate(ctx, date)
	if err != nil {
		log.Printf("[StatisticsJob] Generation failed: %v", err)
		return err
	}

	if j.metrics != nil {
		j.metrics.JobDuration.WithLabelValues("statistics").Observe(time.Since(start).Seconds())
	}

	log.Printf("[StatisticsJob] Completed in %s. Flights: %d, Aircraft: %d",
		time.Since(start).Truncate(time.Millisecond), stat.TotalFlights, stat.UniqueAircraft)
	return nil
}

// RunScheduled runs the statistics job on a fixed interval until ctx is done
func (j *StatisticsJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start so a restart never skips a day
	if err := j.Run(ctx); err != nil {
		log.Printf("[StatisticsJob] Error in initial run: %v", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				log.Printf("[StatisticsJob] Error in scheduled run: %v", err)
			}
		case <-ctx.Done():
			log.Printf("[StatisticsJob] Shutting down scheduled rollup")
			return
		}
	}
}
