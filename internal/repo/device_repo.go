// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for devices,
// push registration tokens, and meal subscriptions.
//
// Token lifecycle functions operate on id sets so that the notification
// dispatcher can apply all accumulated state changes in batch after a
// fan-out run. Each update targets whole device rows atomically; there is
// no field-by-field interleaving between concurrent runs.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
)

// GetDeviceByKey fetches a device by its opaque key, or ErrNotFound.
func GetDeviceByKey(ctx context.Context, db *gorm.DB, deviceKey string) (*domain.Device, error) {
	var d domain.Device
	if err := db.WithContext(ctx).Where("device_key = ?", deviceKey).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// UpsertRegistrationToken stores or replaces the push registration token for
// deviceKey, creating the device row on first contact. Replacing a token
// refreshes its confirmation timestamp; re-submitting the same token leaves
// the row untouched.
func UpsertRegistrationToken(ctx context.Context, db *gorm.DB, deviceKey, token string, now time.Time) (*domain.Device, error) {
	var d domain.Device
	err := db.WithContext(ctx).Where("device_key = ?", deviceKey).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d = domain.Device{
			DeviceKey:         deviceKey,
			RegistrationToken: &token,
			TokenTimestamp:    &now,
			CreatedAt:         now,
		}
		if cerr := db.WithContext(ctx).Create(&d).Error; cerr != nil {
			return nil, cerr
		}
		return &d, nil
	}
	if err != nil {
		return nil, err
	}

	if d.RegistrationToken == nil || *d.RegistrationToken != token {
		updates := map[string]any{
			"registration_token": token,
			"token_timestamp":    now,
		}
		if uerr := db.WithContext(ctx).Model(&d).Updates(updates).Error; uerr != nil {
			return nil, uerr
		}
		d.RegistrationToken = &token
		d.TokenTimestamp = &now
	}
	return &d, nil
}

// SubscribedDevices returns all devices subscribed to mealID that hold a
// non-null registration token.
func SubscribedDevices(ctx context.Context, db *gorm.DB, mealID uint) ([]domain.Device, error) {
	var out []domain.Device
	err := db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.device_id = devices.id").
		Where("subscriptions.meal_id = ? AND devices.registration_token IS NOT NULL", mealID).
		Find(&out).Error
	return out, err
}

// RefreshTokenTimestamps marks the tokens of the given devices as confirmed
// valid now. No-op for an empty id set.
func RefreshTokenTimestamps(ctx context.Context, db *gorm.DB, ids []uint, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&domain.Device{}).
		Where("id IN ?", ids).
		Update("token_timestamp", now).Error
}

// RemoveTokens nulls out the registration token and its timestamp for the
// given devices. Used for tokens the provider rejected or that aged past
// their TTL. No-op for an empty id set.
func RemoveTokens(ctx context.Context, db *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&domain.Device{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"registration_token": nil,
			"token_timestamp":    nil,
		}).Error
}

// FindSubscription fetches the subscription row for (deviceID, mealID), or
// (nil, nil) when the device is not subscribed.
func FindSubscription(ctx context.Context, db *gorm.DB, deviceID, mealID uint) (*domain.Subscription, error) {
	var s domain.Subscription
	err := db.WithContext(ctx).
		Where("device_id = ? AND meal_id = ?", deviceID, mealID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSubscription subscribes a device to a meal.
func CreateSubscription(ctx context.Context, db *gorm.DB, deviceID, mealID uint) error {
	s := &domain.Subscription{
		DeviceID:  deviceID,
		MealID:    mealID,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(s).Error
}

// DeleteSubscription removes the (deviceID, mealID) subscription if present.
func DeleteSubscription(ctx context.Context, db *gorm.DB, deviceID, mealID uint) error {
	return db.WithContext(ctx).
		Where("device_id = ? AND meal_id = ?", deviceID, mealID).
		Delete(&domain.Subscription{}).Error
}

// ListSubscribedMeals returns the meals a device is subscribed to, ordered
// by name.
func ListSubscribedMeals(ctx context.Context, db *gorm.DB, deviceID uint) ([]domain.Meal, error) {
	var out []domain.Meal
	err := db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.meal_id = meals.id").
		Where("subscriptions.device_id = ?", deviceID).
		Order("meals.name asc").
		Find(&out).Error
	return out, err
}
