package notify

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
)

func newNotifyDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("notify_test_%d.db", time.Now().UnixNano()))
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
	if err := db.AutoMigrate(&domain.Meal{}, &domain.Device{}, &domain.Subscription{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// fakeMessenger returns a canned error per token and records each send.
type fakeMessenger struct {
	mu      sync.Mutex
	sent    []string
	outcome map[string]error // token -> error (absent = success)
}

func (m *fakeMessenger) Send(_ context.Context, token string, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, token)
	return m.outcome[token]
}

func (m *fakeMessenger) sentTokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func seedMeal(t *testing.T, db *gorm.DB) domain.Meal {
	t.Helper()
	meal := domain.Meal{Name: "Pierogi ruskie", Category: domain.CategoryVegetarianDish}
	if err := db.Create(&meal).Error; err != nil {
		t.Fatalf("seed meal: %v", err)
	}
	return meal
}

func seedDevice(t *testing.T, db *gorm.DB, key, token string, tokenAge time.Duration, mealID uint) domain.Device {
	t.Helper()
	ts := time.Now().UTC().Add(-tokenAge)
	dev := domain.Device{DeviceKey: key, RegistrationToken: &token, TokenTimestamp: &ts}
	if err := db.Create(&dev).Error; err != nil {
		t.Fatalf("seed device %s: %v", key, err)
	}
	if err := db.Create(&domain.Subscription{DeviceID: dev.ID, MealID: mealID}).Error; err != nil {
		t.Fatalf("seed subscription %s: %v", key, err)
	}
	return dev
}

func TestNotify_FanOut_ClassifiesOutcomes(t *testing.T) {
	db := newNotifyDB(t)
	meal := seedMeal(t, db)

	okDev := seedDevice(t, db, "d-ok", "tok-ok", time.Hour, meal.ID)
	badDev := seedDevice(t, db, "d-bad", "tok-bad", time.Hour, meal.ID)
	flakyDev := seedDevice(t, db, "d-flaky", "tok-flaky", time.Hour, meal.ID)

	messenger := &fakeMessenger{outcome: map[string]error{
		"tok-bad":   fmt.Errorf("%w: unregistered", ErrTokenInvalid),
		"tok-flaky": errors.New("deadline exceeded"),
	}}
	d := &Dispatcher{DB: db, Messenger: messenger, TTL: domain.TokenTTL, Log: zerolog.Nop()}

	before := time.Now().UTC()
	d.Notify(context.Background(), meal.ID)

	if got := len(messenger.sentTokens()); got != 3 {
		t.Fatalf("sent to %d devices, want 3", got)
	}

	// Success: token kept, timestamp refreshed.
	var ok domain.Device
	if err := db.First(&ok, okDev.ID).Error; err != nil {
		t.Fatalf("reload ok device: %v", err)
	}
	if ok.RegistrationToken == nil {
		t.Fatalf("successful delivery must keep the token")
	}
	if ok.TokenTimestamp == nil || ok.TokenTimestamp.Before(before) {
		t.Fatalf("successful delivery must refresh the token timestamp, got %v", ok.TokenTimestamp)
	}

	// Invalid: token and timestamp nulled.
	var bad domain.Device
	if err := db.First(&bad, badDev.ID).Error; err != nil {
		t.Fatalf("reload bad device: %v", err)
	}
	if bad.RegistrationToken != nil || bad.TokenTimestamp != nil {
		t.Fatalf("invalid token must be removed, got token=%v ts=%v", bad.RegistrationToken, bad.TokenTimestamp)
	}

	// Transient: untouched.
	var flaky domain.Device
	if err := db.First(&flaky, flakyDev.ID).Error; err != nil {
		t.Fatalf("reload flaky device: %v", err)
	}
	if flaky.RegistrationToken == nil || *flaky.RegistrationToken != "tok-flaky" {
		t.Fatalf("transient failure must keep the token, got %v", flaky.RegistrationToken)
	}
	if flaky.TokenTimestamp == nil || !flaky.TokenTimestamp.Before(before) {
		t.Fatalf("transient failure must not refresh the timestamp")
	}
}

func TestNotify_ExpiredToken_RemovedWithoutSend(t *testing.T) {
	db := newNotifyDB(t)
	meal := seedMeal(t, db)

	expired := seedDevice(t, db, "d-old", "tok-old", domain.TokenTTL+time.Minute, meal.ID)
	fresh := seedDevice(t, db, "d-new", "tok-new", domain.TokenTTL-time.Hour, meal.ID)

	messenger := &fakeMessenger{}
	d := &Dispatcher{DB: db, Messenger: messenger, TTL: domain.TokenTTL, Log: zerolog.Nop()}
	d.Notify(context.Background(), meal.ID)

	sent := messenger.sentTokens()
	if len(sent) != 1 || sent[0] != "tok-new" {
		t.Fatalf("expected a single send to the fresh token, got %v", sent)
	}

	var old domain.Device
	if err := db.First(&old, expired.ID).Error; err != nil {
		t.Fatalf("reload expired device: %v", err)
	}
	if old.RegistrationToken != nil {
		t.Fatalf("expired token must be removed without a send attempt")
	}

	var kept domain.Device
	if err := db.First(&kept, fresh.ID).Error; err != nil {
		t.Fatalf("reload fresh device: %v", err)
	}
	if kept.RegistrationToken == nil {
		t.Fatalf("fresh token must survive")
	}
}

func TestNotify_CustomTTL_GovernsExpiry(t *testing.T) {
	db := newNotifyDB(t)
	meal := seedMeal(t, db)

	// Two hours old: expired under a 1h TTL, fresh under the default.
	aged := seedDevice(t, db, "d-aged", "tok-aged", 2*time.Hour, meal.ID)

	messenger := &fakeMessenger{}
	d := &Dispatcher{DB: db, Messenger: messenger, TTL: time.Hour, Log: zerolog.Nop()}
	d.Notify(context.Background(), meal.ID)

	if got := len(messenger.sentTokens()); got != 0 {
		t.Fatalf("token past the configured TTL must not be sent to, got %d sends", got)
	}
	var dev domain.Device
	if err := db.First(&dev, aged.ID).Error; err != nil {
		t.Fatalf("reload device: %v", err)
	}
	if dev.RegistrationToken != nil {
		t.Fatalf("token past the configured TTL must be removed")
	}
}

func TestNotify_ZeroTTL_FallsBackToDefault(t *testing.T) {
	db := newNotifyDB(t)
	meal := seedMeal(t, db)

	seedDevice(t, db, "d-aged", "tok-aged", 2*time.Hour, meal.ID)

	messenger := &fakeMessenger{}
	d := &Dispatcher{DB: db, Messenger: messenger, Log: zerolog.Nop()}
	d.Notify(context.Background(), meal.ID)

	sent := messenger.sentTokens()
	if len(sent) != 1 || sent[0] != "tok-aged" {
		t.Fatalf("zero TTL must fall back to the default window, got %v", sent)
	}
}

func TestNotify_NoSubscribers_NoSends(t *testing.T) {
	db := newNotifyDB(t)
	meal := seedMeal(t, db)

	messenger := &fakeMessenger{}
	d := &Dispatcher{DB: db, Messenger: messenger, TTL: domain.TokenTTL, Log: zerolog.Nop()}
	d.Notify(context.Background(), meal.ID)

	if got := len(messenger.sentTokens()); got != 0 {
		t.Fatalf("expected no sends, got %d", got)
	}
}

func TestNotify_UnknownMeal_NoPanic(t *testing.T) {
	db := newNotifyDB(t)
	messenger := &fakeMessenger{}
	d := &Dispatcher{DB: db, Messenger: messenger, TTL: domain.TokenTTL, Log: zerolog.Nop()}

	// Must log and return without touching the messenger.
	d.Notify(context.Background(), 9999)
	if got := len(messenger.sentTokens()); got != 0 {
		t.Fatalf("expected no sends for unknown meal, got %d", got)
	}
}

func TestTokenExpired_Boundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if domain.TokenExpired(now.Add(-domain.TokenTTL), now) {
		t.Fatalf("token exactly at TTL must still be valid")
	}
	if !domain.TokenExpired(now.Add(-domain.TokenTTL-time.Millisecond), now) {
		t.Fatalf("token past TTL must be expired")
	}
}
