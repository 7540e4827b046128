// Occupancy HTTP handlers.
//
// Endpoints:
//   - GET /sks-users/current  (latest reading with trend and freshness hints)
//   - GET /sks-users/today    (all samples of the current local day)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Solvro/backend-topwr-sks/internal/services"
)

// CurrentOccupancy godoc
// @ID          currentOccupancy
// @Summary     Get current canteen occupancy
// @Description Returns the latest occupancy reading with its short-term trend, a freshness flag, and the expected time of the next update.
// @Tags        Occupancy
// @Produce     json
//
// @Success     200  {object}  services.Occupancy
// @Failure     404  {object}  handlers.ErrorResponse "No occupancy data yet"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /sks-users/current [get]
func (h *Handlers) CurrentOccupancy(c *gin.Context) {
	occ, err := h.occSvc.Latest(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoOccupancy) {
			fail(c, http.StatusNotFound, ErrCodeNoOccupancy, "no occupancy data available")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, occ)
}

// TodayOccupancy godoc
// @ID          todayOccupancy
// @Summary     Get today's occupancy samples
// @Description Returns all occupancy samples recorded for the current local day in ascending order.
// @Tags        Occupancy
// @Produce     json
//
// @Success     200  {array}   domain.OccupancySample
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /sks-users/today [get]
func (h *Handlers) TodayOccupancy(c *gin.Context) {
	samples, err := h.occSvc.Today(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, samples)
}
