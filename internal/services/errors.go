// Package services defines the business logic for menus, occupancy readings,
// and meal subscriptions. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

var (
	// ErrMealNotFound indicates that the requested meal does not exist.
	ErrMealNotFound = errors.New("meal not found")

	// ErrNoMenu indicates that no menu snapshot has been ingested yet.
	ErrNoMenu = errors.New("no menu available")

	// ErrNoOccupancy indicates that no occupancy sample exists for the
	// requested window.
	ErrNoOccupancy = errors.New("no occupancy data available")

	// ErrEmptyDeviceKey is returned when a request omits the device key.
	ErrEmptyDeviceKey = errors.New("device key is empty")

	// ErrEmptyToken is returned when a token registration request carries
	// an empty registration token.
	ErrEmptyToken = errors.New("registration token is empty")

	// ErrDeviceNotFound indicates that no device with the given key has
	// registered yet.
	ErrDeviceNotFound = errors.New("device not found")
)
