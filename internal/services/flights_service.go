package services

import (
	"context"
	"time"

	gormlib "gorm.io/gorm"

	"skywatch/tracker/internal/db/repositories"
	"skywatch/tracker/internal/models/dtos"
	gormModels "skywatch/tracker/internal/models/gorm"
)

// FlightsService exposes read-only registry queries over stored flights
// and their position history.
type FlightsService struct {
	db *gormlib.DB
}

// NewFlightsService creates a flights service
func NewFlightsService(db *gormlib.DB) *FlightsService {
	return &FlightsService{db: db}
}

// Search runs a paginated registry search
func (s *FlightsService) Search(ctx context.Context, q repositories.FlightSearch) (*dtos.FlightSearchResult, error) {
	repo := repositories.NewFlightRepository(s.db)
	flights, total, err := repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	return &dtos.FlightSearchResult{
		TotalCount:  total,
		HasNextPage: int64(q.Offset+limit) < total,
		Flights:     flights,
	}, nil
}

// FindByICAO24 returns the flight with the given transponder code, or nil
// when unknown.
func (s *FlightsService) FindByICAO24(ctx context.Context, icao24 string) (*gormModels.Flight, error) {
	repo := repositories.NewFlightRepository(s.db)
	return repo.FindByICAO24(ctx, icao24)
}

// History returns a flight's stored track in ascending order, optionally
// bounded by a time range. The flight is looked up first so an unknown
// code is distinguishable from an empty track.
func (s *FlightsService) History(ctx context.Context, icao24 string, start, end *time.Time) (*gormModels.Flight, []gormModels.FlightPosition, error) {
	flights := repositories.NewFlightRepository(s.db)
	flight, err := flights.FindByICAO24(ctx, icao24)
	if err != nil {
		return nil, nil, err
	}
	if flight == nil {
		return nil, nil, nil
	}

	positions := repositories.NewPositionRepository(s.db)
	track, err := positions.History(ctx, flight.ID, start, end)
	if err != nil {
		return nil, nil, err
	}
	return flight, track, nil
}

// Active returns flights seen within the last hour
func (s *FlightsService) Active(ctx context.Context) ([]gormModels.Flight, error) {
	repo := repositories.NewFlightRepository(s.db)
	return repo.Active(ctx)
}
