package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skywatch/tracker/internal/constants"
	"skywatch/tracker/internal/db/repositories"
	"skywatch/tracker/internal/models/dtos"
	gormModels "skywatch/tracker/internal/models/gorm"
	"skywatch/tracker/internal/providers"
	"skywatch/tracker/internal/services"
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

type mockStateProvider struct {
	fetchFunc func(ctx context.Context, box *providers.BoundingBox) ([]providers.RawState, error)
}

func (m *mockStateProvider) FetchStates(ctx context.Context, box *providers.BoundingBox) ([]providers.RawState, error) {
	return m.fetchFunc(ctx, box)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func newLiveHandler(t *testing.T, db *gormlib.DB, provider providers.StateProvider) http.HandlerFunc {
	t.Helper()
	svc := services.NewLiveFlightsService(
		provider,
		repositories.NewPositionRepository(db),
		nil,
		2*time.Hour,
		15*time.Second,
	)
	return LiveFlightsHandler(svc)
}

func TestLiveFlightsHandler_Success(t *testing.T) {
	db := setupTestDB(t)
	provider := &mockStateProvider{
		fetchFunc: func(ctx context.Context, box *providers.BoundingBox) ([]providers.RawState, error) {
			return []providers.RawState{{
				ICAO24:        "aaa111",
				Callsign:      strPtr("DLH441"),
				OriginCountry: strPtr("Germany"),
				Latitude:      floatPtr(50.0),
				Longitude:     floatPtr(8.5),
			}}, nil
		},
	}

	handler := newLiveHandler(t, db, provider)
	req := httptest.NewRequest("GET", "/api/v1/flights/live", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var response dtos.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Status != string(constants.APIStatusOk) {
		t.Errorf("Expected success status, got %s", response.Status)
	}
}

func TestLiveFlightsHandler_UnavailableIs503(t *testing.T) {
	db := setupTestDB(t)
	provider := &mockStateProvider{
		fetchFunc: func(ctx context.Context, box *providers.BoundingBox) ([]providers.RawState, error) {
			return nil, &providers.ProviderError{
				Code:    constants.ErrCodeRateLimited,
				Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			}
		},
	}

	handler := newLiveHandler(t, db, provider)
	req := httptest.NewRequest("GET", "/api/v1/flights/live", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", rr.Code)
	}

	var response dtos.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Status != string(constants.APIStatusError) {
		t.Errorf("Expected error status, got %s", response.Status)
	}
	if response.Message == "" {
		t.Error("Expected the failure reason in the message")
	}
}

func TestLiveFlightsHandler_PartialBoundingBoxIs400(t *testing.T) {
	db := setupTestDB(t)
	provider := &mockStateProvider{
		fetchFunc: func(ctx context.Context, box *providers.BoundingBox) ([]providers.RawState, error) {
			t.Error("Expected no upstream call on a bad request")
			return nil, nil
		},
	}

	handler := newLiveHandler(t, db, provider)
	req := httptest.NewRequest("GET", "/api/v1/flights/live?lamin=45.5&lomin=5.9", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a partial box, got %d", rr.Code)
	}
}

func TestParseBoundingBox(t *testing.T) {
	req := httptest.NewRequest("GET", "/?lamin=45.5&lomin=5.9&lamax=47.8&lomax=10.5", nil)
	box, err := parseBoundingBox(req)
	if err != nil {
		t.Fatalf("parseBoundingBox returned error: %v", err)
	}
	if box == nil || box.LaMin != 45.5 || box.LoMax != 10.5 {
		t.Errorf("Unexpected box: %+v", box)
	}

	req = httptest.NewRequest("GET", "/", nil)
	box, err = parseBoundingBox(req)
	if err != nil || box != nil {
		t.Errorf("Expected nil box without params, got %+v / %v", box, err)
	}

	req = httptest.NewRequest("GET", "/?lamin=abc&lomin=5.9&lamax=47.8&lomax=10.5", nil)
	if _, err = parseBoundingBox(req); err == nil {
		t.Error("Expected error for a non-numeric bound")
	}
}
