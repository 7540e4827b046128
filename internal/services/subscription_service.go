// Package services – SubscriptionService
//
// This file implements SubscriptionService, which manages push registration
// tokens and per-meal subscriptions keyed by an opaque device key chosen by
// the client. Subscribe/unsubscribe is a toggle-style API: repeating an
// operation is harmless and reported with a distinct status message.

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
	"github.com/Solvro/backend-topwr-sks/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Toggle status messages returned to clients.
const (
	StatusSubscribed        = "Subscribed"
	StatusAlreadySubscribed = "Already subscribed"
	StatusUnsubscribed      = "Unsubscribed"
	StatusNotSubscribed     = "Was not subscribed to this meal"
)

// SubscriptionService owns device registration and meal subscriptions.
type SubscriptionService struct {
	DB *gorm.DB
}

// RegisterToken stores or replaces the push registration token for the
// device identified by deviceKey, creating the device on first contact.
func (s *SubscriptionService) RegisterToken(ctx context.Context, deviceKey, token string) (*domain.Device, error) {
	tr := otel.Tracer("services/SubscriptionService")
	ctx, span := tr.Start(ctx, "RegisterToken")
	defer span.End()

	deviceKey = strings.TrimSpace(deviceKey)
	if deviceKey == "" {
		return nil, ErrEmptyDeviceKey
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}
	return repo.UpsertRegistrationToken(ctx, s.DB, deviceKey, token, time.Now().UTC())
}

// Subscribe adds a subscription for (deviceKey, mealID). Subscribing twice
// is not an error; the returned status distinguishes the two cases.
func (s *SubscriptionService) Subscribe(ctx context.Context, deviceKey string, mealID uint) (string, error) {
	tr := otel.Tracer("services/SubscriptionService")
	ctx, span := tr.Start(ctx, "Subscribe",
		trace.WithAttributes(attribute.Int("meal.id", int(mealID))),
	)
	defer span.End()

	device, meal, err := s.resolve(ctx, deviceKey, mealID)
	if err != nil {
		return "", err
	}
	existing, err := repo.FindSubscription(ctx, s.DB, device.ID, meal.ID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return StatusAlreadySubscribed, nil
	}
	if err := repo.CreateSubscription(ctx, s.DB, device.ID, meal.ID); err != nil {
		return "", err
	}
	return StatusSubscribed, nil
}

// Unsubscribe removes the (deviceKey, mealID) subscription if present.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, deviceKey string, mealID uint) (string, error) {
	tr := otel.Tracer("services/SubscriptionService")
	ctx, span := tr.Start(ctx, "Unsubscribe",
		trace.WithAttributes(attribute.Int("meal.id", int(mealID))),
	)
	defer span.End()

	device, meal, err := s.resolve(ctx, deviceKey, mealID)
	if err != nil {
		return "", err
	}
	existing, err := repo.FindSubscription(ctx, s.DB, device.ID, meal.ID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return StatusNotSubscribed, nil
	}
	if err := repo.DeleteSubscription(ctx, s.DB, device.ID, meal.ID); err != nil {
		return "", err
	}
	return StatusUnsubscribed, nil
}

// ListForDevice returns the meals the device is subscribed to.
func (s *SubscriptionService) ListForDevice(ctx context.Context, deviceKey string) ([]domain.Meal, error) {
	tr := otel.Tracer("services/SubscriptionService")
	ctx, span := tr.Start(ctx, "ListForDevice")
	defer span.End()

	deviceKey = strings.TrimSpace(deviceKey)
	if deviceKey == "" {
		return nil, ErrEmptyDeviceKey
	}
	device, err := repo.GetDeviceByKey(ctx, s.DB, deviceKey)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return repo.ListSubscribedMeals(ctx, s.DB, device.ID)
}

// resolve loads the device and meal behind a toggle request, mapping missing
// rows to their sentinel errors.
func (s *SubscriptionService) resolve(ctx context.Context, deviceKey string, mealID uint) (*domain.Device, *domain.Meal, error) {
	deviceKey = strings.TrimSpace(deviceKey)
	if deviceKey == "" {
		return nil, nil, ErrEmptyDeviceKey
	}
	device, err := repo.GetDeviceByKey(ctx, s.DB, deviceKey)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrDeviceNotFound
		}
		return nil, nil, err
	}
	meal, err := repo.GetMeal(ctx, s.DB, mealID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrMealNotFound
		}
		return nil, nil, err
	}
	return device, meal, nil
}
