package repositories

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "skywatch/tracker/internal/models/gorm"
	"skywatch/tracker/internal/providers"
)

func setupTestDB(t *testing.T) *gormlib.DB {
	t.Helper()
	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&gormModels.Flight{},
		&gormModels.FlightPosition{},
		&gormModels.DailyStatistic{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func testState(icao24 string, callsign *string, country string, lat, lon float64) providers.RawState {
	return providers.RawState{
		ICAO24:        icao24,
		Callsign:      callsign,
		OriginCountry: strPtr(country),
		Latitude:      floatPtr(lat),
		Longitude:     floatPtr(lon),
	}
}

func TestUpsertFromState_CreatesAndUpdates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlightRepository(db)
	ctx := context.Background()

	first := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	flight, err := repo.UpsertFromState(ctx, testState("abc123", strPtr("DLH441"), "Germany", 50.0, 8.5), first)
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if flight.FirstSeenAt == nil || !flight.FirstSeenAt.Equal(first) {
		t.Errorf("Expected first seen %s, got %v", first, flight.FirstSeenAt)
	}

	second := first.Add(time.Minute)
	flight, err = repo.UpsertFromState(ctx, testState("abc123", strPtr("DLH442"), "Germany", 50.1, 8.6), second)
	if err != nil {
		t.Fatalf("Second upsert returned error: %v", err)
	}

	if flight.FirstSeenAt == nil || !flight.FirstSeenAt.Equal(first) {
		t.Errorf("First seen must never move, got %v", flight.FirstSeenAt)
	}
	if flight.LastSeenAt == nil || !flight.LastSeenAt.Equal(second) {
		t.Errorf("Expected last seen %s, got %v", second, flight.LastSeenAt)
	}
	if flight.Callsign == nil || *flight.Callsign != "DLH442" {
		t.Errorf("Expected callsign DLH442, got %v", flight.Callsign)
	}

	var count int64
	db.Model(&gormModels.Flight{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected a single flight row, got %d", count)
	}
}

func TestUpsertFromState_AbsentCallsignKeepsPrevious(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlightRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := repo.UpsertFromState(ctx, testState("abc123", strPtr("DLH441"), "Germany", 50.0, 8.5), now); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	// Absent callsign, blank country
	st := testState("abc123", nil, "", 50.0, 8.5)
	flight, err := repo.UpsertFromState(ctx, st, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Second upsert returned error: %v", err)
	}

	if flight.Callsign == nil || *flight.Callsign != "DLH441" {
		t.Errorf("Expected stored callsign to survive an absent one, got %v", flight.Callsign)
	}
	if flight.OriginCountry == nil || *flight.OriginCountry != "" {
		t.Errorf("Expected country to be overwritten with blank, got %v", flight.OriginCountry)
	}
}

func TestFindByICAO24_UnknownIsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlightRepository(db)

	flight, err := repo.FindByICAO24(context.Background(), "nothere")
	if err != nil {
		t.Fatalf("Expected no error for unknown flight, got %v", err)
	}
	if flight != nil {
		t.Errorf("Expected nil flight, got %+v", flight)
	}
}

func TestSearch_FiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlightRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	repo.UpsertFromState(ctx, testState("aaa111", strPtr("DLH441"), "Germany", 50.0, 8.5), now)
	repo.UpsertFromState(ctx, testState("bbb222", strPtr("DLH9"), "Germany", 51.0, 9.5), now.Add(time.Second))
	repo.UpsertFromState(ctx, testState("ccc333", strPtr("AFR22"), "France", 48.8, 2.3), now.Add(2*time.Second))

	flights, total, err := repo.Search(ctx, FlightSearch{Callsign: "DLH"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if total != 2 || len(flights) != 2 {
		t.Fatalf("Expected 2 DLH flights, got total=%d len=%d", total, len(flights))
	}
	// Ordered by last seen descending
	if flights[0].ICAO24 != "bbb222" {
		t.Errorf("Expected most recently seen first, got %s", flights[0].ICAO24)
	}

	flights, total, err = repo.Search(ctx, FlightSearch{Country: "France"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if total != 1 || flights[0].ICAO24 != "ccc333" {
		t.Errorf("Expected the single French flight, got total=%d", total)
	}

	flights, total, err = repo.Search(ctx, FlightSearch{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if total != 3 || len(flights) != 1 {
		t.Errorf("Expected total 3 with a single page item, got total=%d len=%d", total, len(flights))
	}
}

func TestSearch_BoundingBoxUsesLatestPosition(t *testing.T) {
	db := setupTestDB(t)
	flights := NewFlightRepository(db)
	positions := NewPositionRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	// Flight that was inside the box but has since left it
	left, _ := flights.UpsertFromState(ctx, testState("aaa111", strPtr("DLH441"), "Germany", 50.0, 8.5), now)
	positions.CreateFromState(ctx, left.ID, testState("aaa111", nil, "Germany", 50.0, 8.5), now.Add(-time.Hour))
	positions.CreateFromState(ctx, left.ID, testState("aaa111", nil, "Germany", 60.0, 20.0), now)

	// Flight currently inside the box
	inside, _ := flights.UpsertFromState(ctx, testState("bbb222", strPtr("AFR22"), "France", 50.5, 8.0), now)
	positions.CreateFromState(ctx, inside.ID, testState("bbb222", nil, "France", 50.5, 8.0), now)

	box := &providers.BoundingBox{LaMin: 49, LoMin: 7, LaMax: 52, LoMax: 10}
	results, total, err := flights.Search(ctx, FlightSearch{Box: box})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if total != 1 || len(results) != 1 || results[0].ICAO24 != "bbb222" {
		t.Errorf("Expected only the flight whose latest position is inside the box, got %d results", len(results))
	}
}
