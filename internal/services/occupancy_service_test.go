package services

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
	"github.com/Solvro/backend-topwr-sks/internal/repo"
)

func newOccupancyServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("occupancy_service_test_%d.db", time.Now().UnixNano()))
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

func seedOccupancy(t *testing.T, db *gorm.DB, ts time.Time, users int, avg float64) {
	t.Helper()
	err := repo.UpsertOccupancySamples(context.Background(), db, []domain.OccupancySample{{
		ExternalTimestamp: ts,
		ActiveUsers:       users,
		MovingAverage21:   avg,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}})
	if err != nil {
		t.Fatalf("seed sample at %v: %v", ts, err)
	}
}

func newOccupancyService(db *gorm.DB) *OccupancyService {
	return &OccupancyService{DB: db, Location: time.UTC}
}

func TestLatest_EmptyStoreReturnsErrNoOccupancy(t *testing.T) {
	svc := newOccupancyService(newOccupancyServiceDB(t))
	if _, err := svc.Latest(context.Background()); !errors.Is(err, ErrNoOccupancy) {
		t.Fatalf("expected ErrNoOccupancy, got %v", err)
	}
}

func TestLatest_ReturnsNewestSample(t *testing.T) {
	db := newOccupancyServiceDB(t)
	svc := newOccupancyService(db)
	now := time.Now().UTC()

	seedOccupancy(t, db, now.Add(-10*time.Minute), 30, 28.0)
	seedOccupancy(t, db, now.Add(-5*time.Minute), 45, 31.0)

	occ, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if occ.ActiveUsers != 45 || occ.MovingAverage21 != 31.0 {
		t.Fatalf("picked wrong sample: %+v", occ)
	}
	if !occ.IsResultRecent {
		t.Fatal("a five-minute-old sample must count as recent")
	}
	wantNext := now.Add(-5 * time.Minute).Add(updateGrace)
	if !occ.NextUpdateTimestamp.Equal(wantNext) {
		t.Fatalf("nextUpdateTimestamp = %v, want %v", occ.NextUpdateTimestamp, wantNext)
	}
}

func TestLatest_ZeroReadingFallsBackToPrevious(t *testing.T) {
	db := newOccupancyServiceDB(t)
	svc := newOccupancyService(db)
	now := time.Now().UTC()

	seedOccupancy(t, db, now.Add(-7*time.Minute), 42, 40.0)
	seedOccupancy(t, db, now.Add(-2*time.Minute), 0, 38.0)

	occ, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if occ.ActiveUsers != 42 {
		t.Fatalf("expected fallback past the zero reading, got %+v", occ)
	}
}

func TestLatest_ZeroReadingWithNoPreviousIsServed(t *testing.T) {
	db := newOccupancyServiceDB(t)
	svc := newOccupancyService(db)
	now := time.Now().UTC()

	seedOccupancy(t, db, now.Add(-2*time.Minute), 0, 0.0)

	occ, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if occ.ActiveUsers != 0 {
		t.Fatalf("single zero sample should be served as-is, got %+v", occ)
	}
}

func TestLatest_StaleSampleIsNotRecent(t *testing.T) {
	db := newOccupancyServiceDB(t)
	svc := newOccupancyService(db)
	now := time.Now().UTC()

	seedOccupancy(t, db, now.Add(-2*time.Hour), 12, 11.0)

	occ, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if occ.IsResultRecent {
		t.Fatal("a two-hour-old sample must not count as recent")
	}
}

func TestLatest_Trend(t *testing.T) {
	now := time.Now().UTC()

	cases := []struct {
		name string
		avgs []float64 // oldest to newest, 5 minutes apart
		want Trend
	}{
		{"increasing", []float64{10, 11, 12, 13}, TrendIncreasing},
		{"decreasing", []float64{13, 12, 11, 10}, TrendDecreasing},
		{"flat", []float64{12, 12, 12, 12}, TrendStable},
		{"insufficient history", []float64{10, 13}, TrendStable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newOccupancyServiceDB(t)
			svc := newOccupancyService(db)

			n := len(tc.avgs)
			for i, avg := range tc.avgs {
				ts := now.Add(-time.Duration(n-i) * 5 * time.Minute)
				seedOccupancy(t, db, ts, 20+i, avg)
			}

			occ, err := svc.Latest(context.Background())
			if err != nil {
				t.Fatalf("Latest: %v", err)
			}
			if occ.Trend != tc.want {
				t.Fatalf("trend = %s, want %s", occ.Trend, tc.want)
			}
		})
	}
}

func TestToday_ReturnsCurrentDaySamples(t *testing.T) {
	db := newOccupancyServiceDB(t)
	svc := newOccupancyService(db)
	now := time.Now().UTC()

	seedOccupancy(t, db, now.Add(-30*time.Hour), 5, 5.0) // yesterday or earlier
	seedOccupancy(t, db, now.Add(-1*time.Minute), 33, 30.0)

	samples, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	for _, s := range samples {
		if s.ActiveUsers == 5 {
			t.Fatalf("a sample from a previous day leaked into today: %+v", s)
		}
	}
	found := false
	for _, s := range samples {
		if s.ActiveUsers == 33 {
			found = true
		}
	}
	if !found {
		t.Fatal("today's sample missing from the result")
	}
}
