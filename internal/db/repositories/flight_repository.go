package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	gormlib "gorm.io/gorm"

	"skywatch/tracker/internal/constants"
	gormModels "skywatch/tracker/internal/models/gorm"
	"skywatch/tracker/internal/providers"
)

// FlightRepository handles flight identity records
type FlightRepository struct {
	db *gormlib.DB
}

// NewFlightRepository creates a flight repository over the given handle,
// which may be a transaction.
func NewFlightRepository(db *gormlib.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// UpsertFromState finds or creates the flight for a state vector's ICAO24
// and applies the observation.
//
// A blank callsign never clears a previously stored one, while origin
// country is overwritten unconditionally, blank included. The asymmetry is
// kept on purpose for compatibility with the existing dataset; do not
// "fix" one side without migrating the other.
func (r *FlightRepository) UpsertFromState(ctx context.Context, state providers.RawState, observedAt time.Time) (*gormModels.Flight, error) {
	var flight gormModels.Flight
	err := r.db.WithContext(ctx).
		Where("icao24 = ?", state.ICAO24).
		First(&flight).Error
	if err != nil {
		if !errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to query flight %s: %w", state.ICAO24, err)
		}
		flight = gormModels.Flight{ICAO24: state.ICAO24}
	}

	if state.Callsign != nil {
		flight.Callsign = state.Callsign
	}
	flight.OriginCountry = state.OriginCountry

	if flight.FirstSeenAt == nil {
		t := observedAt
		flight.FirstSeenAt = &t
	}
	t := observedAt
	flight.LastSeenAt = &t

	if err := r.db.WithContext(ctx).Save(&flight).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert flight %s: %w", state.ICAO24, err)
	}
	return &flight, nil
}

// FindByICAO24 returns the flight with the given transponder code, or nil
// when none exists.
func (r *FlightRepository) FindByICAO24(ctx context.Context, icao24 string) (*gormModels.Flight, error) {
	var flight gormModels.Flight
	err := r.db.WithContext(ctx).
		Where("icao24 = ?", icao24).
		First(&flight).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &flight, nil
}

// FlightSearch carries the registry search filters
type FlightSearch struct {
	Callsign string
	Country  string
	Box      *providers.BoundingBox
	Limit    int
	Offset   int
}

// Search filters the registry by callsign substring, origin country and
// bounding box over each flight's latest position, ordered by last-seen
// descending.
func (r *FlightRepository) Search(ctx context.Context, q FlightSearch) ([]gormModels.Flight, int64, error) {
	scope := r.db.WithContext(ctx).Model(&gormModels.Flight{})

	if q.Callsign != "" {
		scope = scope.Where("callsign LIKE ?", "%"+q.Callsign+"%")
	}
	if q.Country != "" {
		scope = scope.Where("origin_country = ?", q.Country)
	}
	if q.Box != nil {
		var ids []uint
		err := r.db.WithContext(ctx).
			Raw(constants.FlightIDsWithLatestPositionInBox,
				q.Box.LaMin, q.Box.LaMax, q.Box.LoMin, q.Box.LoMax).
			Scan(&ids).Error
		if err != nil {
			return nil, 0, fmt.Errorf("failed to resolve bounding box filter: %w", err)
		}
		if len(ids) == 0 {
			return []gormModels.Flight{}, 0, nil
		}
		scope = scope.Where("id IN ?", ids)
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var flights []gormModels.Flight
	err := scope.
		Order("last_seen_at DESC").
		Limit(limit).
		Offset(q.Offset).
		Find(&flights).Error
	if err != nil {
		return nil, 0, err
	}
	return flights, total, nil
}

// Active returns flights seen within the last hour
func (r *FlightRepository) Active(ctx context.Context) ([]gormModels.Flight, error) {
	var flights []gormModels.Flight
	err := r.db.WithContext(ctx).
		Where("last_seen_at > ?", time.Now().Add(-time.Hour)).
		Order("last_seen_at DESC").
		Find(&flights).Error
	return flights, err
}
