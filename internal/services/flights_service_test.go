package services

import (
	"context"
	"testing"
	"time"

	"skywatch/tracker/internal/db/repositories"
)

func TestHistory_UnknownFlightIsNil(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFlightsService(db)

	flight, track, err := svc.History(context.Background(), "nothere", nil, nil)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if flight != nil || track != nil {
		t.Errorf("Expected nil flight and track, got %+v / %d", flight, len(track))
	}
}

func TestHistory_KnownFlightWithEmptyTrack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	flights := repositories.NewFlightRepository(db)
	flights.UpsertFromState(ctx, airborneState("aaa111", "DLH441", "Germany", 50.0, 8.5), time.Now().UTC())

	svc := NewFlightsService(db)
	flight, track, err := svc.History(ctx, "aaa111", nil, nil)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if flight == nil {
		t.Fatal("Expected the flight to be found")
	}
	if len(track) != 0 {
		t.Errorf("Expected empty track, got %d", len(track))
	}
}

func TestSearch_PaginationFlag(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	flights := repositories.NewFlightRepository(db)
	for _, icao := range []string{"aaa111", "bbb222", "ccc333"} {
		flights.UpsertFromState(ctx, airborneState(icao, "DLH441", "Germany", 50.0, 8.5), now)
	}

	svc := NewFlightsService(db)
	result, err := svc.Search(ctx, repositories.FlightSearch{Limit: 2})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.TotalCount != 3 {
		t.Errorf("Expected total 3, got %d", result.TotalCount)
	}
	if !result.HasNextPage {
		t.Error("Expected a next page with limit 2 of 3")
	}

	result, err = svc.Search(ctx, repositories.FlightSearch{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.HasNextPage {
		t.Error("Expected no next page on the last page")
	}
}
