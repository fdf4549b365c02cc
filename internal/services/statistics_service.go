package services

import (
	"context"
	"fmt"
	"time"

	gormlib "gorm.io/gorm"

	"skywatch/tracker/internal/db/repositories"
	"skywatch/tracker/internal/logging"
	gormModels "skywatch/tracker/internal/models/gorm"
)

// StatisticsService builds daily rollups of the ingested traffic. A rollup
// is derived entirely from stored positions, so re-running it for a date
// overwrites the previous row with the same numbers.
type StatisticsService struct {
	db *gormlib.DB
}

// NewStatisticsService creates a statistics service
func NewStatisticsService(db *gormlib.DB) *StatisticsService {
	return &StatisticsService{db: db}
}

// GenerateForDate aggregates positions recorded on the given UTC calendar
// day and upserts the daily row. Running it twice for the same date is safe.
func (s *StatisticsService) GenerateForDate(ctx context.Context, date time.Time) (*gormModels.DailyStatistic, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	repo := repositories.NewStatisticsRepository(s.db)

	uniqueAircraft, err := repo.DistinctFlightCount(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count flights for %s: %w", start.Format("2006-01-02"), err)
	}

	byCountry, err := repo.CountryBreakdown(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate countries for %s: %w", start.Format("2006-01-02"), err)
	}

	avgAltitude, err := repo.AverageAltitude(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to average altitude for %s: %w", start.Format("2006-01-02"), err)
	}

	totalFlights := 0
	for _, n := range byCountry {
		totalFlights += n
	}

	stat, err := repo.UpsertForDate(ctx, start, totalFlights, int(uniqueAircraft), byCountry, avgAltitude)
	if err != nil {
		return nil, fmt.Errorf("failed to store statistics for %s: %w", start.Format("2006-01-02"), err)
	}

	logging.Info("Daily statistics generated",
		"date", start.Format("2006-01-02"),
		"unique_aircraft", uniqueAircraft,
		"total_flights", totalFlights,
	)
	return stat, nil
}

// Range returns stored daily rollups between the two dates inclusive,
// oldest first.
func (s *StatisticsService) Range(ctx context.Context, from, to time.Time) ([]gormModels.DailyStatistic, error) {
	repo := repositories.NewStatisticsRepository(s.db)
	return repo.InRange(ctx, from, to)
}
