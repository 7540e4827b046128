// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the meal
// catalog.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
)

// FindMeal looks up a meal by exact (name, category) identity. Returns
// (nil, nil) when no such meal exists.
func FindMeal(ctx context.Context, db *gorm.DB, name string, category domain.MealCategory) (*domain.Meal, error) {
	var m domain.Meal
	err := db.WithContext(ctx).
		Where("name = ? AND category = ?", name, category).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMeal inserts a new catalog entry for (name, category).
func CreateMeal(ctx context.Context, db *gorm.DB, name string, category domain.MealCategory) (*domain.Meal, error) {
	m := &domain.Meal{
		Name:      name,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// GetMeal fetches a single meal by id, or ErrNotFound if missing.
func GetMeal(ctx context.Context, db *gorm.DB, id uint) (*domain.Meal, error) {
	var m domain.Meal
	if err := db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMeals returns the whole meal catalog ordered by name.
func ListMeals(ctx context.Context, db *gorm.DB) ([]domain.Meal, error) {
	var out []domain.Meal
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}
