// Informational HTTP handlers.
//
// Endpoints:
//   - GET /info/opening-hours  (static canteen and cafe opening hours)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OpeningHours describes the daily opening window of one venue.
type OpeningHours struct {
	Venue  string `json:"venue" example:"canteen"`
	Opens  string `json:"opens" example:"10:30"`
	Closes string `json:"closes" example:"16:00"`
}

// GetOpeningHours godoc
// @ID          openingHours
// @Summary     Get opening hours
// @Description Returns the opening hours of the canteen and the cafe.
// @Tags        Info
// @Produce     json
//
// @Success     200  {array}  handlers.OpeningHours
// @Router      /info/opening-hours [get]
func (h *Handlers) GetOpeningHours(c *gin.Context) {
	ok(c, http.StatusOK, []OpeningHours{
		{Venue: "canteen", Opens: "10:30", Closes: "16:00"},
		{Venue: "cafe", Opens: "08:00", Closes: "15:30"},
	})
}
