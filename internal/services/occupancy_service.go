// Package services – OccupancyService
//
// This file implements OccupancyService, which answers "how busy is the
// canteen right now" queries from the ingested sample history. The latest
// reading skips a zero sample at the edge of the feed's publishing window,
// carries a short-term trend derived from the moving average, and tells
// clients when fresher data is expected.

package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
	"github.com/Solvro/backend-topwr-sks/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Trend describes the short-term direction of the occupancy moving average.
type Trend string

const (
	TrendIncreasing Trend = "INCREASING"
	TrendDecreasing Trend = "DECREASING"
	TrendStable     Trend = "STABLE"
)

const (
	// trendWindow is how many samples back the trend comparison reaches.
	trendWindow = 3

	// updateGrace is added to a sample's UpdatedAt to predict when the
	// next feed poll will have landed.
	updateGrace = 5*time.Minute + 30*time.Second

	// recentWindow bounds how old a sample may be and still count as a
	// live reading rather than yesterday's tail.
	recentWindow = 30 * time.Minute
)

// Occupancy is the latest-reading payload served to clients.
type Occupancy struct {
	ExternalTimestamp   time.Time `json:"externalTimestamp"`
	ActiveUsers         int       `json:"activeUsers"`
	MovingAverage21     float64   `json:"movingAverage21"`
	Trend               Trend     `json:"trend"`
	IsResultRecent      bool      `json:"isResultRecent"`
	NextUpdateTimestamp time.Time `json:"nextUpdateTimestamp"`
}

// OccupancyService serves occupancy reads.
type OccupancyService struct {
	DB       *gorm.DB
	Location *time.Location
}

// Latest returns the current occupancy reading. A latest sample reporting
// zero active users is treated as a publishing-window artifact and the
// previous sample is served instead. ErrNoOccupancy is returned when the
// store holds no usable sample.
func (s *OccupancyService) Latest(ctx context.Context) (*Occupancy, error) {
	tr := otel.Tracer("services/OccupancyService")
	ctx, span := tr.Start(ctx, "Latest")
	defer span.End()

	now := time.Now()
	sample, err := repo.LatestOccupancyBefore(ctx, s.DB, now, 0)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoOccupancy
		}
		return nil, err
	}
	if sample.ActiveUsers == 0 {
		prev, err := repo.LatestOccupancyBefore(ctx, s.DB, now, 1)
		if err == nil {
			sample = prev
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
	}

	trend, err := s.trend(ctx, sample)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("active_users", sample.ActiveUsers))
	return &Occupancy{
		ExternalTimestamp:   sample.ExternalTimestamp,
		ActiveUsers:         sample.ActiveUsers,
		MovingAverage21:     sample.MovingAverage21,
		Trend:               trend,
		IsResultRecent:      now.Sub(sample.ExternalTimestamp) <= recentWindow,
		NextUpdateTimestamp: sample.UpdatedAt.Add(updateGrace),
	}, nil
}

// Today returns all samples recorded for the current local day in ascending
// timestamp order.
func (s *OccupancyService) Today(ctx context.Context) ([]domain.OccupancySample, error) {
	tr := otel.Tracer("services/OccupancyService")
	ctx, span := tr.Start(ctx, "Today")
	defer span.End()

	now := time.Now().In(s.Location)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Location)
	return repo.OccupancyBetween(ctx, s.DB, dayStart.UTC(), now.UTC())
}

// trend compares the sample's moving average against the reading from
// trendWindow samples earlier. With too little history the trend is STABLE.
func (s *OccupancyService) trend(ctx context.Context, latest *domain.OccupancySample) (Trend, error) {
	window, err := repo.OccupancyTrendWindow(ctx, s.DB, latest.ExternalTimestamp, trendWindow)
	if err != nil {
		return TrendStable, err
	}
	if len(window) < trendWindow {
		return TrendStable, nil
	}
	earlier := window[trendWindow-1].MovingAverage21
	switch {
	case latest.MovingAverage21 > earlier:
		return TrendIncreasing, nil
	case latest.MovingAverage21 < earlier:
		return TrendDecreasing, nil
	default:
		return TrendStable, nil
	}
}
