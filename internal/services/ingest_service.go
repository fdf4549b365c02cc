package services

import (
	"context"
	"fmt"
	"time"

	gormlib "gorm.io/gorm"

	"skywatch/tracker/internal/db/repositories"
	"skywatch/tracker/internal/logging"
	"skywatch/tracker/internal/providers"
)

// IngestResult reports one completed fetch-and-persist cycle
type IngestResult struct {
	FlightsUpdated   int
	PositionsCreated int
	StatesFetched    int
}

// IngestService runs one fetch-and-persist cycle against the full state
// feed. It is driven by the scheduled fetch job and by the on-demand
// refresh endpoint; the deployment runs at most one cycle at a time.
type IngestService struct {
	db       *gormlib.DB
	provider providers.StateProvider
}

// NewIngestService creates an ingestion service
func NewIngestService(db *gormlib.DB, provider providers.StateProvider) *IngestService {
	return &IngestService{db: db, provider: provider}
}

// RunCycle fetches the full feed and persists it in a single transaction.
// States missing coordinates are skipped silently and excluded from the
// counts. Upstream failures are propagated to the caller unchanged; a
// persistence failure rolls back the whole batch.
func (s *IngestService) RunCycle(ctx context.Context) (*IngestResult, error) {
	states, err := s.provider.FetchStates(ctx, nil)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{StatesFetched: len(states)}
	observedAt := time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		flights := repositories.NewFlightRepository(tx)
		positions := repositories.NewPositionRepository(tx)

		for _, state := range states {
			if !state.HasCoordinates() {
				continue
			}

			flight, err := flights.UpsertFromState(ctx, state, observedAt)
			if err != nil {
				return err
			}
			if _, err := positions.CreateFromState(ctx, flight.ID, state, observedAt); err != nil {
				return err
			}

			result.FlightsUpdated++
			result.PositionsCreated++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist ingestion batch: %w", err)
	}

	logging.Info("Ingestion cycle completed",
		"states_fetched", result.StatesFetched,
		"flights_updated", result.FlightsUpdated,
		"positions_created", result.PositionsCreated,
	)
	return result, nil
}
