// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for canteen
// occupancy samples.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
)

// UpsertOccupancySamples inserts the given samples, updating active_users,
// moving_average_21 and updated_at in place when a sample for the same
// external timestamp already exists. The feed republishes the whole day on
// every poll, so conflicts are the common case.
func UpsertOccupancySamples(ctx context.Context, db *gorm.DB, samples []domain.OccupancySample) error {
	if len(samples) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_timestamp"}},
			DoUpdates: clause.AssignmentColumns([]string{"active_users", "moving_average_21", "updated_at"}),
		}).
		Create(&samples).Error
}

// LatestOccupancyBefore returns the most recent sample strictly before t,
// skipping the given number of leading rows. Offset 1 is used to step past a
// zero reading at the edge of the feed's publishing window. Returns
// ErrNotFound when no such sample exists.
func LatestOccupancyBefore(ctx context.Context, db *gorm.DB, t time.Time, offset int) (*domain.OccupancySample, error) {
	var s domain.OccupancySample
	err := db.WithContext(ctx).
		Where("external_timestamp < ?", t).
		Order("external_timestamp desc").
		Offset(offset).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// OccupancyBetween returns all samples within [from, to] in ascending
// timestamp order.
func OccupancyBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]domain.OccupancySample, error) {
	var out []domain.OccupancySample
	err := db.WithContext(ctx).
		Where("external_timestamp BETWEEN ? AND ?", from, to).
		Order("external_timestamp asc").
		Find(&out).Error
	return out, err
}

// OccupancyTrendWindow returns up to limit samples strictly before t in
// descending timestamp order, used to compute the short-term trend.
func OccupancyTrendWindow(ctx context.Context, db *gorm.DB, t time.Time, limit int) ([]domain.OccupancySample, error) {
	var out []domain.OccupancySample
	err := db.WithContext(ctx).
		Where("external_timestamp < ?", t).
		Order("external_timestamp desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
