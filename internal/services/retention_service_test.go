package services

import (
	"context"
	"testing"
	"time"

	gormModels "skywatch/tracker/internal/models/gorm"
)

func TestSweep_RemovesOnlyOldPositions(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()

	seedPositionAt(t, db, airborneState("aaa111", "DLH441", "Germany", 50.0, 8.5), now.AddDate(0, 0, -40))
	seedPositionAt(t, db, airborneState("aaa111", "DLH441", "Germany", 50.1, 8.6), now.AddDate(0, 0, -1))
	seedPositionAt(t, db, airborneState("bbb222", "AFR22", "France", 48.8, 2.3), now.AddDate(0, 0, -31))

	svc := NewRetentionService(db, 30*24*time.Hour)
	deleted, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 positions deleted, got %d", deleted)
	}

	var positionCount, flightCount int64
	db.Model(&gormModels.FlightPosition{}).Count(&positionCount)
	db.Model(&gormModels.Flight{}).Count(&flightCount)
	if positionCount != 1 {
		t.Errorf("Expected 1 position left, got %d", positionCount)
	}
	// Flights are never swept, only their history
	if flightCount != 2 {
		t.Errorf("Expected both flight rows kept, got %d", flightCount)
	}
}

func TestSweep_EmptyStoreIsZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRetentionService(db, 30*24*time.Hour)

	deleted, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Expected 0 deletions, got %d", deleted)
	}
}
