// Package services – MenuService
//
// This file implements MenuService, the application-level component that
// exposes the meal catalog and menu snapshots to the read API. It is a thin
// coordination layer over the repo package: queries are delegated, results
// are mapped to API-facing values, and absence is reported through sentinel
// errors.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include pagination parameters where applicable.

package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
	"github.com/Solvro/backend-topwr-sks/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MenuItem is one dish listing within a snapshot, joined with its meal.
type MenuItem struct {
	MealID   uint                `json:"mealId"`
	Name     string              `json:"name"`
	Category domain.MealCategory `json:"category"`
	Size     string              `json:"size"`
	Price    float64             `json:"price"`
}

// Menu is a snapshot together with its dish listings.
type Menu struct {
	Hash      string     `json:"hash"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Items     []MenuItem `json:"items"`
}

// MenuService serves the meal catalog and menu snapshot queries.
type MenuService struct {
	DB *gorm.DB
}

// ListMeals returns every meal ever observed, ordered by name.
func (s *MenuService) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	tr := otel.Tracer("services/MenuService")
	ctx, span := tr.Start(ctx, "ListMeals")
	defer span.End()

	return repo.ListMeals(ctx, s.DB)
}

// GetMeal returns a single meal by id.
func (s *MenuService) GetMeal(ctx context.Context, id uint) (*domain.Meal, error) {
	tr := otel.Tracer("services/MenuService")
	ctx, span := tr.Start(ctx, "GetMeal",
		trace.WithAttributes(attribute.Int("meal.id", int(id))),
	)
	defer span.End()

	meal, err := repo.GetMeal(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return meal, nil
}

// CurrentMenu returns the most recently seen snapshot with its dishes.
// ErrNoMenu is returned before the first successful ingestion.
func (s *MenuService) CurrentMenu(ctx context.Context) (*Menu, error) {
	tr := otel.Tracer("services/MenuService")
	ctx, span := tr.Start(ctx, "CurrentMenu")
	defer span.End()

	snap, err := repo.LatestSnapshot(ctx, s.DB)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoMenu
		}
		return nil, err
	}
	return s.buildMenu(ctx, snap)
}

// History returns paginated snapshots, newest first, without their dishes.
func (s *MenuService) History(ctx context.Context, page, pageSize int) ([]domain.MenuSnapshot, int64, error) {
	tr := otel.Tracer("services/MenuService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountSnapshots(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.MenuSnapshot{}, 0, nil
	}
	items, err := repo.ListSnapshotsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// MenuByHash returns one historical snapshot with its dishes.
func (s *MenuService) MenuByHash(ctx context.Context, hash string) (*Menu, error) {
	tr := otel.Tracer("services/MenuService")
	ctx, span := tr.Start(ctx, "MenuByHash",
		trace.WithAttributes(attribute.String("snapshot.hash", hash)),
	)
	defer span.End()

	snap, err := repo.FindSnapshot(ctx, s.DB, hash)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNoMenu
	}
	return s.buildMenu(ctx, snap)
}

func (s *MenuService) buildMenu(ctx context.Context, snap *domain.MenuSnapshot) (*Menu, error) {
	dishes, err := repo.ListSnapshotDishes(ctx, s.DB, snap.Hash)
	if err != nil {
		return nil, err
	}
	items := make([]MenuItem, 0, len(dishes))
	for _, d := range dishes {
		items = append(items, MenuItem{
			MealID:   d.MealID,
			Name:     d.Meal.Name,
			Category: d.Meal.Category,
			Size:     d.Size,
			Price:    d.Price,
		})
	}
	return &Menu{
		Hash:      snap.Hash,
		CreatedAt: snap.CreatedAt,
		UpdatedAt: snap.UpdatedAt,
		Items:     items,
	}, nil
}
