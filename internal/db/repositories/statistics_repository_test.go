package repositories

import (
	"context"
	"testing"
	"time"

	gormModels "skywatch/tracker/internal/models/gorm"
)

func seedDay(t *testing.T, flights *FlightRepository, positions *PositionRepository, day time.Time) {
	t.Helper()
	ctx := context.Background()

	german, err := flights.UpsertFromState(ctx, testState("aaa111", strPtr("DLH441"), "Germany", 50.0, 8.5), day)
	if err != nil {
		t.Fatalf("Seed upsert failed: %v", err)
	}
	french, err := flights.UpsertFromState(ctx, testState("bbb222", strPtr("AFR22"), "France", 48.8, 2.3), day)
	if err != nil {
		t.Fatalf("Seed upsert failed: %v", err)
	}

	withAlt := testState("aaa111", nil, "Germany", 50.0, 8.5)
	withAlt.BaroAltitude = floatPtr(10000)
	if _, err := positions.CreateFromState(ctx, german.ID, withAlt, day.Add(10*time.Minute)); err != nil {
		t.Fatalf("Seed position failed: %v", err)
	}
	withAlt2 := testState("aaa111", nil, "Germany", 50.1, 8.6)
	withAlt2.BaroAltitude = floatPtr(11000)
	if _, err := positions.CreateFromState(ctx, german.ID, withAlt2, day.Add(20*time.Minute)); err != nil {
		t.Fatalf("Seed position failed: %v", err)
	}
	if _, err := positions.CreateFromState(ctx, french.ID, testState("bbb222", nil, "France", 48.8, 2.3), day.Add(30*time.Minute)); err != nil {
		t.Fatalf("Seed position failed: %v", err)
	}
}

func TestAggregates_ForWindow(t *testing.T) {
	db := setupTestDB(t)
	flights := NewFlightRepository(db)
	positions := NewPositionRepository(db)
	stats := NewStatisticsRepository(db)
	ctx := context.Background()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	seedDay(t, flights, positions, day)

	// A position on the next day must not leak into the window
	outside, _ := flights.UpsertFromState(ctx, testState("ccc333", nil, "Spain", 40.4, -3.7), day)
	positions.CreateFromState(ctx, outside.ID, testState("ccc333", nil, "Spain", 40.4, -3.7), day.Add(25*time.Hour))

	end := day.Add(24 * time.Hour)

	count, err := stats.DistinctFlightCount(ctx, day, end)
	if err != nil {
		t.Fatalf("DistinctFlightCount returned error: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 distinct flights, got %d", count)
	}

	byCountry, err := stats.CountryBreakdown(ctx, day, end)
	if err != nil {
		t.Fatalf("CountryBreakdown returned error: %v", err)
	}
	if byCountry["Germany"] != 1 || byCountry["France"] != 1 {
		t.Errorf("Unexpected breakdown: %+v", byCountry)
	}
	if _, ok := byCountry["Spain"]; ok {
		t.Error("Expected next-day flight to be excluded")
	}

	avg, err := stats.AverageAltitude(ctx, day, end)
	if err != nil {
		t.Fatalf("AverageAltitude returned error: %v", err)
	}
	if avg == nil || *avg != 10500 {
		t.Errorf("Expected average altitude 10500, got %v", avg)
	}
}

func TestAverageAltitude_AllNullIsNil(t *testing.T) {
	db := setupTestDB(t)
	flights := NewFlightRepository(db)
	positions := NewPositionRepository(db)
	stats := NewStatisticsRepository(db)
	ctx := context.Background()
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	flight, _ := flights.UpsertFromState(ctx, testState("aaa111", nil, "Germany", 50.0, 8.5), day)
	positions.CreateFromState(ctx, flight.ID, testState("aaa111", nil, "Germany", 50.0, 8.5), day.Add(time.Hour))

	avg, err := stats.AverageAltitude(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("AverageAltitude returned error: %v", err)
	}
	if avg != nil {
		t.Errorf("Expected nil average without altitudes, got %v", *avg)
	}
}

func TestUpsertForDate_IsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	stats := NewStatisticsRepository(db)
	ctx := context.Background()
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	counts := gormModels.CountryCounts{"Germany": 2}
	if _, err := stats.UpsertForDate(ctx, day, 2, 2, counts, floatPtr(10000)); err != nil {
		t.Fatalf("First upsert returned error: %v", err)
	}

	counts["France"] = 1
	stat, err := stats.UpsertForDate(ctx, day, 3, 3, counts, floatPtr(10500))
	if err != nil {
		t.Fatalf("Second upsert returned error: %v", err)
	}
	if stat.TotalFlights != 3 {
		t.Errorf("Expected overwritten total 3, got %d", stat.TotalFlights)
	}

	var rows int64
	db.Model(&gormModels.DailyStatistic{}).Count(&rows)
	if rows != 1 {
		t.Errorf("Expected a single row per date, got %d", rows)
	}

	var stored gormModels.DailyStatistic
	if err := db.Where("date = ?", day).First(&stored).Error; err != nil {
		t.Fatalf("Failed to reload statistic: %v", err)
	}
	if stored.TotalFlights != 3 || stored.FlightsByCountry["France"] != 1 {
		t.Errorf("Stored row not overwritten: %+v", stored)
	}
}

func TestInRange_AscendingInclusive(t *testing.T) {
	db := setupTestDB(t)
	stats := NewStatisticsRepository(db)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		day := time.Date(2026, 8, 20+i, 0, 0, 0, 0, time.UTC)
		if _, err := stats.UpsertForDate(ctx, day, i, i, gormModels.CountryCounts{}, nil); err != nil {
			t.Fatalf("Upsert returned error: %v", err)
		}
	}

	from := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)
	rows, err := stats.InRange(ctx, from, to)
	if err != nil {
		t.Fatalf("InRange returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].TotalFlights != 1 || rows[1].TotalFlights != 2 {
		t.Errorf("Expected ascending date order, got %+v", rows)
	}
}
