// Package scraper – Ingestor
//
// This file implements the ingestion orchestrator. One run fetches the menu
// page, short-circuits when its content fingerprint is already known,
// otherwise persists a new snapshot together with its reconciled dish rows
// in a single transaction, and finally fires best-effort notifications for
// meals that have not been announced within the cooldown window.
//
// Runs are single-flight: a run starting while another is still in progress
// is skipped. The fixed polling cadence plus the fingerprint short-circuit
// make a skipped poll harmless.
package scraper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
	"github.com/Solvro/backend-topwr-sks/internal/repo"
)

// ErrRunInProgress is returned when an ingestion run is skipped because a
// previous run has not finished yet.
var ErrRunInProgress = errors.New("ingestion run already in progress")

// Notifier delivers "meal is on the menu" notifications. Implementations
// must be best-effort and never panic; delivery failures do not affect the
// ingestion transaction, which has already committed by the time Notify is
// called.
type Notifier interface {
	Notify(ctx context.Context, mealID uint)
}

// Ingestor coordinates one menu ingestion run end to end.
//
// All fields are set once at construction; Ingest is safe to call from a
// single poller goroutine and protects itself against overlapping calls.
type Ingestor struct {
	DB       *gorm.DB
	Fetcher  Fetcher
	Notifier Notifier      // optional; nil disables notifications
	Cooldown time.Duration // min interval between notifications per meal
	Log      zerolog.Logger

	running atomic.Bool

	mu           sync.Mutex
	lastNotified map[uint]time.Time
}

// Ingest performs one ingestion run. It is idempotent with respect to
// unchanged page content: re-fetching an already known page state only bumps
// the snapshot's UpdatedAt. Any storage failure rolls back the entire run;
// a fetch failure aborts before any mutation. Individual unparseable dish
// lines are skipped and logged, never fatal to the run.
func (in *Ingestor) Ingest(ctx context.Context) error {
	if !in.running.CompareAndSwap(false, true) {
		in.Log.Warn().Msg("skipping ingestion run: previous run still in progress")
		ingestRuns.WithLabelValues("skipped").Inc()
		return ErrRunInProgress
	}
	defer in.running.Store(false)

	tr := otel.Tracer("scraper/Ingestor")
	ctx, span := tr.Start(ctx, "Ingest")
	defer span.End()

	html, err := in.Fetcher.FetchMenu(ctx)
	if err != nil {
		in.Log.Error().Err(err).Msg("menu fetch failed")
		ingestRuns.WithLabelValues("error").Inc()
		return err
	}

	hash := Fingerprint(html)
	span.SetAttributes(attribute.String("snapshot.hash", hash))
	now := time.Now().UTC()

	existing, err := repo.FindSnapshot(ctx, in.DB, hash)
	if err != nil {
		ingestRuns.WithLabelValues("error").Inc()
		return err
	}
	if existing != nil {
		if err := repo.TouchSnapshot(ctx, in.DB, hash, now); err != nil {
			ingestRuns.WithLabelValues("error").Inc()
			return err
		}
		in.Log.Debug().Str("hash", hash).Msg("menu unchanged, snapshot touched")
		ingestRuns.WithLabelValues("unchanged").Inc()
		return nil
	}

	items, err := ExtractItems(html)
	if err != nil {
		in.Log.Error().Err(err).Msg("menu markup could not be parsed")
		ingestRuns.WithLabelValues("error").Inc()
		return err
	}

	dishes := make([]Dish, 0, len(items))
	for _, item := range items {
		dish, perr := ParseDish(item.Text, item.CategoryLabel)
		if perr != nil {
			in.Log.Warn().Err(perr).Str("text", item.Text).Msg("skipping unparseable dish line")
			parseFailures.Inc()
			continue
		}
		dishes = append(dishes, dish)
	}
	dishesParsed.Add(float64(len(dishes)))

	// Persist the snapshot and all of its dish rows atomically. Meal
	// creation happens inside the same transaction so that a failed run
	// leaves no catalog side effects behind.
	mealIDs := make([]uint, 0, len(dishes))
	err = in.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.CreateSnapshot(ctx, tx, hash, now); err != nil {
			return err
		}
		seen := make(map[uint]struct{}, len(dishes))
		for _, dish := range dishes {
			meal, err := in.resolveOrCreateMeal(ctx, tx, dish.Name, dish.Category)
			if err != nil {
				return err
			}
			if _, dup := seen[meal.ID]; dup {
				// The page occasionally repeats a listing; the composite
				// (hash, meal) key admits only one row per meal.
				continue
			}
			seen[meal.ID] = struct{}{}
			if err := repo.CreateSnapshotDish(ctx, tx, hash, meal.ID, dish.Size, dish.Price); err != nil {
				return err
			}
			mealIDs = append(mealIDs, meal.ID)
		}
		return nil
	})
	if err != nil {
		in.Log.Error().Err(err).Str("hash", hash).Msg("ingestion transaction rolled back")
		ingestRuns.WithLabelValues("error").Inc()
		return err
	}

	in.Log.Info().Str("hash", hash).Int("dishes", len(mealIDs)).Msg("menu updated")
	ingestRuns.WithLabelValues("updated").Inc()

	// Notifications are a side channel outside the consistency boundary:
	// the snapshot is committed no matter what happens below.
	in.notifyNewlySeen(ctx, mealIDs, now)
	return nil
}

// resolveOrCreateMeal finds the canonical meal for (name, category) or
// creates it on first observation. Matching is exact; dish texts that differ
// by a single character become distinct meals.
func (in *Ingestor) resolveOrCreateMeal(ctx context.Context, tx *gorm.DB, name string, category domain.MealCategory) (*domain.Meal, error) {
	meal, err := repo.FindMeal(ctx, tx, name, category)
	if err != nil {
		return nil, err
	}
	if meal != nil {
		return meal, nil
	}
	in.Log.Debug().Str("name", name).Str("category", string(category)).Msg("creating new meal")
	return repo.CreateMeal(ctx, tx, name, category)
}

// notifyNewlySeen invokes the notifier for each meal whose last notification
// is older than the cooldown window. The window keeps a dish that persists
// across several polls within the same day from re-notifying subscribers
// every few minutes.
func (in *Ingestor) notifyNewlySeen(ctx context.Context, mealIDs []uint, now time.Time) {
	if in.Notifier == nil {
		return
	}
	tr := otel.Tracer("scraper/Ingestor")
	ctx, span := tr.Start(ctx, "notifyNewlySeen",
		trace.WithAttributes(attribute.Int("meals", len(mealIDs))),
	)
	defer span.End()

	for _, id := range mealIDs {
		if !in.markNotified(id, now) {
			continue
		}
		in.Notifier.Notify(ctx, id)
	}
}

// markNotified records a notification for mealID and reports whether one
// should be sent, i.e. whether the previous notification is older than the
// cooldown window.
func (in *Ingestor) markNotified(mealID uint, now time.Time) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.lastNotified == nil {
		in.lastNotified = make(map[uint]time.Time)
	}
	if last, ok := in.lastNotified[mealID]; ok && now.Sub(last) < in.Cooldown {
		return false
	}
	in.lastNotified[mealID] = now
	return true
}
