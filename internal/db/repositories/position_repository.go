package repositories

import (
	"context"
	"fmt"
	"time"

	gormlib "gorm.io/gorm"

	"skywatch/tracker/internal/constants"
	gormModels "skywatch/tracker/internal/models/gorm"
	"skywatch/tracker/internal/providers"
)

// PositionRepository handles immutable position samples
type PositionRepository struct {
	db *gormlib.DB
}

// NewPositionRepository creates a position repository over the given
// handle, which may be a transaction.
func NewPositionRepository(db *gormlib.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// CreateFromState appends one position sample for a flight. States without
// coordinates cannot be stored.
func (r *PositionRepository) CreateFromState(ctx context.Context, flightID uint, state providers.RawState, recordedAt time.Time) (*gormModels.FlightPosition, error) {
	if !state.HasCoordinates() {
		return nil, fmt.Errorf("state %s has no coordinates", state.ICAO24)
	}

	position := gormModels.FlightPosition{
		FlightID:     flightID,
		Latitude:     *state.Latitude,
		Longitude:    *state.Longitude,
		Altitude:     state.Altitude(),
		Velocity:     state.Velocity,
		Heading:      state.TrueTrack,
		VerticalRate: state.VerticalRate,
		OnGround:     state.OnGround,
		RecordedAt:   recordedAt,
	}

	if err := r.db.WithContext(ctx).Create(&position).Error; err != nil {
		return nil, fmt.Errorf("failed to create position for flight %d: %w", flightID, err)
	}
	return &position, nil
}

// History returns a flight's positions in ascending recorded-at order,
// optionally bounded by a time range.
func (r *PositionRepository) History(ctx context.Context, flightID uint, start, end *time.Time) ([]gormModels.FlightPosition, error) {
	scope := r.db.WithContext(ctx).
		Where("flight_id = ?", flightID).
		Order("recorded_at ASC")
	if start != nil {
		scope = scope.Where("recorded_at >= ?", *start)
	}
	if end != nil {
		scope = scope.Where("recorded_at <= ?", *end)
	}

	var positions []gormModels.FlightPosition
	err := scope.Find(&positions).Error
	return positions, err
}

// LatestWithinWindow returns, per flight, the single most recent position
// recorded at or after since, restricted to the bounding box when one is
// given, with the owning flight loaded. Read-only.
func (r *PositionRepository) LatestWithinWindow(ctx context.Context, since time.Time, box *providers.BoundingBox) ([]gormModels.FlightPosition, error) {
	var positions []gormModels.FlightPosition
	err := r.db.WithContext(ctx).
		Raw(constants.LatestPositionPerFlight, since).
		Scan(&positions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query latest positions: %w", err)
	}

	if box != nil {
		filtered := positions[:0]
		for _, p := range positions {
			if box.Contains(p.Latitude, p.Longitude) {
				filtered = append(filtered, p)
			}
		}
		positions = filtered
	}

	if len(positions) == 0 {
		return positions, nil
	}

	// Attach the owning flights for callsign/country projection.
	ids := make([]uint, 0, len(positions))
	for _, p := range positions {
		ids = append(ids, p.FlightID)
	}
	var flights []gormModels.Flight
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&flights).Error; err != nil {
		return nil, fmt.Errorf("failed to load flights for positions: %w", err)
	}
	byID := make(map[uint]*gormModels.Flight, len(flights))
	for i := range flights {
		byID[flights[i].ID] = &flights[i]
	}
	for i := range positions {
		positions[i].Flight = byID[positions[i].FlightID]
	}

	return positions, nil
}

// DeleteOlderThan removes all positions recorded before the cutoff and
// returns the number of rows deleted.
func (r *PositionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("recorded_at < ?", cutoff).
		Delete(&gormModels.FlightPosition{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete old positions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
