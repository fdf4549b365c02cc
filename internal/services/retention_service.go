package services

import (
	"context"
	"fmt"
	"time"

	gormlib "gorm.io/gorm"

	"skywatch/tracker/internal/db/repositories"
	"skywatch/tracker/internal/logging"
)

// RetentionService prunes position rows older than the configured horizon.
// Flights themselves are kept; only their position history is trimmed.
type RetentionService struct {
	db      *gormlib.DB
	horizon time.Duration
}

// NewRetentionService creates a retention service with the given horizon
func NewRetentionService(db *gormlib.DB, horizon time.Duration) *RetentionService {
	return &RetentionService{db: db, horizon: horizon}
}

// Sweep deletes positions recorded before now minus the horizon and
// returns how many rows were removed.
func (s *RetentionService) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.horizon)

	repo := repositories.NewPositionRepository(s.db)
	deleted, err := repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune positions older than %s: %w", cutoff.Format(time.RFC3339), err)
	}

	logging.Info("Retention sweep completed",
		"cutoff", cutoff.Format(time.RFC3339),
		"positions_deleted", deleted,
	)
	return deleted, nil
}
