// Menu HTTP handlers.
//
// This file exposes REST endpoints for the meal catalog and menu snapshots:
//   - GET /meals                  (catalog of every meal ever observed)
//   - GET /meals/:id              (single meal)
//   - GET /menus/current          (latest snapshot with its dishes)
//   - GET /menus/history          (paginated snapshot history)
//   - GET /menus/history/:hash    (one historical snapshot with its dishes)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
	"github.com/Solvro/backend-topwr-sks/internal/services"
	"github.com/Solvro/backend-topwr-sks/internal/utils"
)

//
// Service contracts (context-aware)
//

// MenuService defines menu and meal catalog reads consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MenuService interface {
	ListMeals(ctx context.Context) ([]domain.Meal, error)
	GetMeal(ctx context.Context, id uint) (*domain.Meal, error)
	CurrentMenu(ctx context.Context) (*services.Menu, error)
	History(ctx context.Context, page, pageSize int) ([]domain.MenuSnapshot, int64, error)
	MenuByHash(ctx context.Context, hash string) (*services.Menu, error)
}

// OccupancyService defines occupancy reads consumed by HTTP handlers.
type OccupancyService interface {
	Latest(ctx context.Context) (*services.Occupancy, error)
	Today(ctx context.Context) ([]domain.OccupancySample, error)
}

// SubscriptionService defines device registration and subscription
// operations consumed by HTTP handlers.
type SubscriptionService interface {
	RegisterToken(ctx context.Context, deviceKey, token string) (*domain.Device, error)
	Subscribe(ctx context.Context, deviceKey string, mealID uint) (string, error)
	Unsubscribe(ctx context.Context, deviceKey string, mealID uint) (string, error)
	ListForDevice(ctx context.Context, deviceKey string) ([]domain.Meal, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for menus, occupancy, and subscriptions.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	menuSvc MenuService
	occSvc  OccupancyService
	subSvc  SubscriptionService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(menuSvc MenuService, occSvc OccupancyService, subSvc SubscriptionService) *Handlers {
	return &Handlers{menuSvc: menuSvc, occSvc: occSvc, subSvc: subSvc}
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// MenuHistoryResponse wraps a page of snapshots and pagination information.
type MenuHistoryResponse struct {
	Snapshots  []domain.MenuSnapshot `json:"snapshots"`
	Pagination Pagination            `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

var snapshotHashRE = regexp.MustCompile(`^[0-9a-f]{64}$`)

// mealID parses the :id path parameter as a positive integer.
func mealID(c *gin.Context) (uint, bool) {
	n := utils.AtoiDefault(c.Param("id"), -1)
	if n <= 0 {
		return 0, false
	}
	return uint(n), true
}

//
// Handlers
//

// ListMeals godoc
// @ID          listMeals
// @Summary     List all meals
// @Description Returns every meal ever observed on the menu, ordered by name.
// @Tags        Meals
// @Produce     json
//
// @Success     200  {array}   domain.Meal
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /meals [get]
func (h *Handlers) ListMeals(c *gin.Context) {
	meals, err := h.menuSvc.ListMeals(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, meals)
}

// GetMeal godoc
// @ID          getMeal
// @Summary     Get a single meal
// @Description Returns one meal from the catalog by its numeric id.
// @Tags        Meals
// @Produce     json
//
// @Param       id  path  int  true  "Meal ID"  minimum(1)
//
// @Success     200  {object}  domain.Meal
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Meal not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /meals/{id} [get]
func (h *Handlers) GetMeal(c *gin.Context) {
	id, okID := mealID(c)
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "meal id must be a positive integer")
		return
	}
	meal, err := h.menuSvc.GetMeal(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrMealNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "meal not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, meal)
}

// CurrentMenu godoc
// @ID          currentMenu
// @Summary     Get the current menu
// @Description Returns the most recently seen menu snapshot with its dishes.
// @Tags        Menus
// @Produce     json
//
// @Success     200  {object}  services.Menu
// @Failure     404  {object}  handlers.ErrorResponse "No menu ingested yet"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /menus/current [get]
func (h *Handlers) CurrentMenu(c *gin.Context) {
	menu, err := h.menuSvc.CurrentMenu(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoMenu) {
			fail(c, http.StatusNotFound, ErrCodeNoMenu, "no menu available")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, menu)
}

// MenuHistory godoc
// @ID          menuHistory
// @Summary     List menu snapshots (paginated)
// @Description Returns a page of menu snapshots, newest first, without dishes.
// @Tags        Menus
// @Produce     json
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.MenuHistoryResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /menus/history [get]
func (h *Handlers) MenuHistory(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.menuSvc.History(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, MenuHistoryResponse{
		Snapshots: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// MenuByHash godoc
// @ID          menuByHash
// @Summary     Get one historical menu
// @Description Returns a historical menu snapshot with its dishes, addressed by content hash.
// @Tags        Menus
// @Produce     json
//
// @Param       hash  path  string  true  "Snapshot content hash (64 hex chars)"
//
// @Success     200  {object}  services.Menu
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Snapshot not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /menus/history/{hash} [get]
func (h *Handlers) MenuByHash(c *gin.Context) {
	hash := c.Param("hash")
	if !snapshotHashRE.MatchString(hash) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "hash must be 64 lowercase hex characters")
		return
	}
	menu, err := h.menuSvc.MenuByHash(c.Request.Context(), hash)
	if err != nil {
		if errors.Is(err, services.ErrNoMenu) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "snapshot not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, menu)
}
