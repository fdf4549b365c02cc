package jobs

import (
	"context"
	"log"
	"time"

	"skywatch/tracker/internal/metrics"
	"skywatch/tracker/internal/services"
)

// RetentionJob prunes old position rows on a schedule
type RetentionJob struct {
	retention *services.RetentionService
	metrics   *metrics.MetricsRegistry
}

// NewRetentionJob creates a new retention job instance
func NewRetentionJob(retention *services.RetentionService, reg *metrics.MetricsRegistry) *RetentionJob {
	return &RetentionJob{retention: retention, metrics: reg}
}

// Run executes one retention sweep
func (j *RetentionJob) Run(ctx context.Context) error {
	start := time.Now()
	log.Printf("[RetentionJob] Starting sweep at %s", start.Format(time.RFC3339))

	deleted, err := j.retention.Sweep(ctx)
	if err != nil {
		log.Printf("[RetentionJob] Sweep failed: %v", err)
		return err
	}

	if j.metrics != nil {
		j.metrics.PositionsPrunedTotal.Add(float64(deleted))
		j.metrics.JobDuration.WithLabelValues("retention").Observe(time.Since(start).Seconds())
	}

	log.Printf("[RetentionJob] Completed in %s. Deleted: %d positions",
		time.Since(start).Truncate(time.Millisecond), deleted)
	return nil
}

// RunScheduled runs the retention job on a fixed interval until ctx is done
func (j *RetentionJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				log.Printf("[RetentionJob] Error in scheduled run: %v", err)
			}
		case <-ctx.Done():
			log.Printf("[RetentionJob] Shutting down scheduled sweep")
			return
		}
	}
}
