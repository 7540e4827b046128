// Package notify delivers push notifications to subscribed devices.
//
// The package separates transport (Messenger, normally Firebase Cloud
// Messaging) from orchestration (Dispatcher), so dispatch logic is testable
// without a Firebase project.
package notify

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// ErrTokenInvalid marks a registration token that the push provider reports
// as permanently unusable. The dispatcher removes such tokens; any other
// send error is treated as transient and leaves the token in place.
var ErrTokenInvalid = errors.New("registration token invalid")

// Messenger sends one data message to one device token.
type Messenger interface {
	Send(ctx context.Context, token string, data map[string]string) error
}

// FCMMessenger delivers messages through Firebase Cloud Messaging.
type FCMMessenger struct {
	client *messaging.Client
}

// NewFCMMessenger initializes a Firebase app from a service account
// credentials file and returns a Messenger backed by its messaging client.
func NewFCMMessenger(ctx context.Context, credentialsFile string) (*FCMMessenger, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("notify: init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("notify: init messaging client: %w", err)
	}
	return &FCMMessenger{client: client}, nil
}

// Send pushes a data-only message to token. Errors that FCM classifies as
// unregistered or malformed tokens are mapped to ErrTokenInvalid.
func (m *FCMMessenger) Send(ctx context.Context, token string, data map[string]string) error {
	_, err := m.client.Send(ctx, &messaging.Message{
		Token: token,
		Data:  data,
	})
	if err == nil {
		return nil
	}
	if messaging.IsRegistrationTokenNotRegistered(err) || messaging.IsInvalidArgument(err) {
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return err
}
