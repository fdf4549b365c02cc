package repositories

import (
	"context"
	"fmt"
	"time"

	gormlib "gorm.io/gorm"

	"skywatch/tracker/internal/constants"
	gormModels "skywatch/tracker/internal/models/gorm"
)

// StatisticsRepository handles daily rollups and the aggregate reads that
// feed them.
type StatisticsRepository struct {
	db *gormlib.DB
}

// NewStatisticsRepository creates a statistics repository
func NewStatisticsRepository(db *gormlib.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// DistinctFlightCount counts the flights with at least one position in the
// half-open window [start, end).
func (r *StatisticsRepository) DistinctFlightCount(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.FlightPosition{}).
		Where("recorded_at >= ? AND recorded_at < ?", start, end).
		Distinct("flight_id").
		Count(&count).Error
	return count, err
}

// CountryBreakdown groups the window's distinct flights by origin country.
// Flights without a country are bucketed under the empty string.
func (r *StatisticsRepository) CountryBreakdown(ctx context.Context, start, end time.Time) (gormModels.CountryCounts, error) {
	var rows []struct {
		Country *string
		Total   int
	}
	err := r.db.WithContext(ctx).
		Raw(constants.CountryBreakdownForWindow, start, end).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute country breakdown: %w", err)
	}

	counts := make(gormModels.CountryCounts, len(rows))
	for _, row := range rows {
		country := ""
		if row.Country != nil {
			country = *row.Country
		}
		counts[country] = row.Total
	}
	return counts, nil
}

// AverageAltitude returns the mean of the window's non-null altitudes, or
// nil when no position carried one.
func (r *StatisticsRepository) AverageAltitude(ctx context.Context, start, end time.Time) (*float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&gormModels.FlightPosition{}).
		Select("AVG(altitude)").
		Where("recorded_at >= ? AND recorded_at < ?", start, end).
		Where("altitude IS NOT NULL").
		Scan(&avg).Error
	return avg, err
}

// UpsertForDate writes the single rollup row for a date, overwriting any
// previous values so re-runs stay idempotent.
func (r *StatisticsRepository) UpsertForDate(ctx context.Context, date time.Time, totalFlights, uniqueAircraft int, byCountry gormModels.CountryCounts, avgAltitude *float64) (*gormModels.DailyStatistic, error) {
	stat := gormModels.DailyStatistic{Date: date}

	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Assign(map[string]interface{}{
			"total_flights":      totalFlights,
			"unique_aircraft":    uniqueAircraft,
			"flights_by_country": byCountry,
			"avg_altitude":       avgAltitude,
		}).
		FirstOrCreate(&stat).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert daily statistic for %s: %w", date.Format("2006-01-02"), err)
	}

	stat.TotalFlights = totalFlights
	stat.UniqueAircraft = uniqueAircraft
	stat.FlightsByCountry = byCountry
	stat.AvgAltitude = avgAltitude
	return &stat, nil
}

// InRange returns the rollups between two dates inclusive, ascending.
func (r *StatisticsRepository) InRange(ctx context.Context, start, end time.Time) ([]gormModels.DailyStatistic, error) {
	var stats []gormModels.DailyStatistic
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").
		Find(&stats).Error
	return stats, err
}
