// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for menu snapshots
// and their per-day dish listings.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a snapshot is not found, FindSnapshot returns gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// FindSnapshot fetches a snapshot by its content hash. Returns (nil, nil)
// when no snapshot with that hash exists, so the caller can distinguish
// "never seen" from a database failure.
func FindSnapshot(ctx context.Context, db *gorm.DB, hash string) (*domain.MenuSnapshot, error) {
	var s domain.MenuSnapshot
	err := db.WithContext(ctx).Where("hash = ?", hash).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// TouchSnapshot bumps UpdatedAt on an existing snapshot, recording that the
// page state identified by hash was observed again. Returns ErrNotFound when
// the snapshot does not exist.
func TouchSnapshot(ctx context.Context, db *gorm.DB, hash string, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.MenuSnapshot{}).
		Where("hash = ?", hash).
		Update("updated_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateSnapshot inserts a new snapshot row for hash.
func CreateSnapshot(ctx context.Context, db *gorm.DB, hash string, now time.Time) (*domain.MenuSnapshot, error) {
	s := &domain.MenuSnapshot{
		Hash:      hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// LatestSnapshot returns the most recently updated snapshot, or ErrNotFound
// when no snapshot has ever been stored.
func LatestSnapshot(ctx context.Context, db *gorm.DB) (*domain.MenuSnapshot, error) {
	var s domain.MenuSnapshot
	err := db.WithContext(ctx).Order("updated_at desc").First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CountSnapshots returns the total number of stored snapshots.
func CountSnapshots(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.MenuSnapshot{}).Count(&total).Error
	return total, err
}

// ListSnapshotsPage returns a paginated slice of snapshots ordered by
// creation time descending (most recent menu state first). Use
// CountSnapshots to obtain the total for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListSnapshotsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.MenuSnapshot, error) {
	var out []domain.MenuSnapshot
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CreateSnapshotDish inserts one day-specific listing linking a snapshot to
// a meal with that run's size and price.
func CreateSnapshotDish(ctx context.Context, db *gorm.DB, snapshotHash string, mealID uint, size string, price float64) error {
	d := &domain.SnapshotDish{
		SnapshotHash: snapshotHash,
		MealID:       mealID,
		Size:         size,
		Price:        price,
		CreatedAt:    time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(d).Error
}

// ListSnapshotDishes returns the dish listings of one snapshot with their
// meals preloaded, in insertion (document) order.
func ListSnapshotDishes(ctx context.Context, db *gorm.DB, hash string) ([]domain.SnapshotDish, error) {
	var out []domain.SnapshotDish
	err := db.WithContext(ctx).
		Preload("Meal").
		Where("snapshot_hash = ?", hash).
		Order("created_at asc, meal_id asc").
		Find(&out).Error
	return out, err
}
