package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
)

func newOccupancyRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("occupancy_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.OccupancySample{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func occupancySampleAt(ts time.Time, users int, avg float64) domain.OccupancySample {
	return domain.OccupancySample{
		ExternalTimestamp: ts,
		ActiveUsers:       users,
		MovingAverage21:   avg,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}
}

func TestUpsertOccupancySamples_InsertThenConflictUpdate(t *testing.T) {
	db := newOccupancyRepoDB(t)
	ctx := context.Background()
	ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	if err := UpsertOccupancySamples(ctx, db, []domain.OccupancySample{
		occupancySampleAt(ts, 40, 38.5),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Feed republishes the same timestamp with corrected values.
	if err := UpsertOccupancySamples(ctx, db, []domain.OccupancySample{
		occupancySampleAt(ts, 55, 41.0),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var count int64
	if err := db.Model(&domain.OccupancySample{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("conflict must update in place, got %d rows", count)
	}

	s, err := LatestOccupancyBefore(ctx, db, ts.Add(time.Minute), 0)
	if err != nil {
		t.Fatalf("LatestOccupancyBefore: %v", err)
	}
	if s.ActiveUsers != 55 || s.MovingAverage21 != 41.0 {
		t.Fatalf("updated values not applied: %+v", s)
	}
}

func TestUpsertOccupancySamples_EmptyIsNoop(t *testing.T) {
	db := newOccupancyRepoDB(t)
	if err := UpsertOccupancySamples(context.Background(), db, nil); err != nil {
		t.Fatalf("empty upsert: %v", err)
	}
}

func TestLatestOccupancyBefore_Offsets(t *testing.T) {
	db := newOccupancyRepoDB(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	samples := []domain.OccupancySample{
		occupancySampleAt(base, 30, 29.0),
		occupancySampleAt(base.Add(5*time.Minute), 35, 30.0),
		occupancySampleAt(base.Add(10*time.Minute), 0, 31.0),
	}
	if err := UpsertOccupancySamples(ctx, db, samples); err != nil {
		t.Fatalf("seed: %v", err)
	}

	now := base.Add(12 * time.Minute)

	latest, err := LatestOccupancyBefore(ctx, db, now, 0)
	if err != nil {
		t.Fatalf("offset 0: %v", err)
	}
	if !latest.ExternalTimestamp.Equal(base.Add(10 * time.Minute)) {
		t.Fatalf("offset 0 picked %v", latest.ExternalTimestamp)
	}

	previous, err := LatestOccupancyBefore(ctx, db, now, 1)
	if err != nil {
		t.Fatalf("offset 1: %v", err)
	}
	if previous.ActiveUsers != 35 {
		t.Fatalf("offset 1 picked %+v", previous)
	}

	// Strictly before: a sample exactly at t is excluded.
	atEdge, err := LatestOccupancyBefore(ctx, db, base.Add(10*time.Minute), 0)
	if err != nil {
		t.Fatalf("edge: %v", err)
	}
	if atEdge.ActiveUsers != 35 {
		t.Fatalf("edge picked %+v", atEdge)
	}

	if _, err := LatestOccupancyBefore(ctx, db, base, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before any sample, got %v", err)
	}
}

func TestOccupancyBetween_InclusiveAscending(t *testing.T) {
	db := newOccupancyRepoDB(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	var samples []domain.OccupancySample
	for i := 0; i < 4; i++ {
		samples = append(samples, occupancySampleAt(base.Add(time.Duration(i)*time.Hour), 10+i, float64(10+i)))
	}
	if err := UpsertOccupancySamples(ctx, db, samples); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := OccupancyBetween(ctx, db, base.Add(time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("OccupancyBetween: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (bounds inclusive)", len(got))
	}
	if !got[0].ExternalTimestamp.Before(got[1].ExternalTimestamp) {
		t.Fatalf("expected ascending order: %v, %v", got[0].ExternalTimestamp, got[1].ExternalTimestamp)
	}
}

func TestOccupancyTrendWindow_LimitsAndOrder(t *testing.T) {
	db := newOccupancyRepoDB(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	var samples []domain.OccupancySample
	for i := 0; i < 5; i++ {
		samples = append(samples, occupancySampleAt(base.Add(time.Duration(i)*time.Minute), 10+i, float64(20+i)))
	}
	if err := UpsertOccupancySamples(ctx, db, samples); err != nil {
		t.Fatalf("seed: %v", err)
	}

	window, err := OccupancyTrendWindow(ctx, db, base.Add(4*time.Minute), 3)
	if err != nil {
		t.Fatalf("OccupancyTrendWindow: %v", err)
	}
	if len(window) != 3 {
		t.Fatalf("len = %d, want 3", len(window))
	}
	// Descending from the newest strictly-before sample.
	if window[0].MovingAverage21 != 23 || window[2].MovingAverage21 != 21 {
		t.Fatalf("unexpected window: %+v", window)
	}
}
