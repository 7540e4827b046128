package notify

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
	"github.com/Solvro/backend-topwr-sks/internal/repo"
)

// Dispatcher fans a per-meal notification out to every subscribed device.
//
// Tokens older than TTL are dropped without a send attempt. After all sends
// complete, token bookkeeping is applied in two batch updates: successful
// deliveries refresh the token timestamp, invalid tokens are removed so the
// next run does not retry them.
type Dispatcher struct {
	DB        *gorm.DB
	Messenger Messenger
	TTL       time.Duration
	Log       zerolog.Logger
}

// Notify sends the "meal is available" message to every device subscribed
// to mealID. It never propagates failures: delivery is best effort and
// every outcome is logged.
func (d *Dispatcher) Notify(ctx context.Context, mealID uint) {
	tr := otel.Tracer("notify/Dispatcher")
	ctx, span := tr.Start(ctx, "Notify")
	defer span.End()
	span.SetAttributes(attribute.Int("meal.id", int(mealID)))

	meal, err := repo.GetMeal(ctx, d.DB, mealID)
	if err != nil {
		d.Log.Error().Err(err).Uint("meal_id", mealID).Msg("notify: meal lookup failed")
		return
	}

	devices, err := repo.SubscribedDevices(ctx, d.DB, mealID)
	if err != nil {
		d.Log.Error().Err(err).Uint("meal_id", mealID).Msg("notify: subscriber lookup failed")
		return
	}
	if len(devices) == 0 {
		return
	}

	now := time.Now().UTC()
	ttl := d.TTL
	if ttl <= 0 {
		ttl = domain.TokenTTL
	}
	data := map[string]string{
		"mealId":   strconv.FormatUint(uint64(meal.ID), 10),
		"mealName": meal.Name,
		"category": string(meal.Category),
	}

	var (
		mu              sync.Mutex
		wg              sync.WaitGroup
		tokensToRefresh []uint
		tokensToDelete  []uint
	)

	for _, dev := range devices {
		if dev.RegistrationToken == nil || dev.TokenTimestamp == nil {
			continue
		}
		if now.Sub(*dev.TokenTimestamp) > ttl {
			mu.Lock()
			tokensToDelete = append(tokensToDelete, dev.ID)
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(dev domain.Device) {
			defer wg.Done()
			err := d.Messenger.Send(ctx, *dev.RegistrationToken, data)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				tokensToRefresh = append(tokensToRefresh, dev.ID)
			case errors.Is(err, ErrTokenInvalid):
				tokensToDelete = append(tokensToDelete, dev.ID)
				d.Log.Info().Uint("device_id", dev.ID).Msg("notify: removing invalid registration token")
			default:
				// Transient failure; keep the token and try again on the
				// next notification.
				d.Log.Warn().Err(err).Uint("device_id", dev.ID).Msg("notify: send failed")
			}
		}(dev)
	}
	wg.Wait()

	if len(tokensToRefresh) > 0 {
		if err := repo.RefreshTokenTimestamps(ctx, d.DB, tokensToRefresh, now); err != nil {
			d.Log.Error().Err(err).Msg("notify: token timestamp refresh failed")
		}
	}
	if len(tokensToDelete) > 0 {
		if err := repo.RemoveTokens(ctx, d.DB, tokensToDelete); err != nil {
			d.Log.Error().Err(err).Msg("notify: token removal failed")
		}
	}

	d.Log.Info().
		Uint("meal_id", mealID).
		Int("sent", len(tokensToRefresh)).
		Int("removed", len(tokensToDelete)).
		Msg("notify: dispatch complete")
}
