// Subscription and registration token HTTP handlers.
//
// Endpoints:
//   - PUT    /registration-tokens            (register or replace a device's push token)
//   - GET    /subscriptions/:deviceKey       (list a device's subscribed meals)
//   - POST   /subscriptions                  (subscribe a device to a meal)
//   - DELETE /subscriptions                  (unsubscribe a device from a meal)
//
// Devices identify themselves with an opaque client-chosen key; there is no
// account system. Subscribe/unsubscribe are idempotent and report the
// outcome in a status message.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Solvro/backend-topwr-sks/internal/services"
)

//
// DTOs
//

// RegisterTokenRequest is the JSON payload for registering a push token.
type RegisterTokenRequest struct {
	DeviceKey         string `json:"deviceKey" binding:"required" example:"0b54ad40-6b0f-4783-a71f-b44e0a135e9f"`
	RegistrationToken string `json:"registrationToken" binding:"required" example:"fWk3...:APA91b..."`
}

// SubscriptionRequest is the JSON payload for subscribe and unsubscribe.
type SubscriptionRequest struct {
	DeviceKey string `json:"deviceKey" binding:"required" example:"0b54ad40-6b0f-4783-a71f-b44e0a135e9f"`
	MealID    uint   `json:"mealId" binding:"required" example:"42"`
}

// StatusResponse reports the outcome of a toggle-style operation.
type StatusResponse struct {
	Message string `json:"message" example:"Subscribed"`
}

//
// Handlers
//

// RegisterToken godoc
// @ID          registerToken
// @Summary     Register a push token
// @Description Stores or replaces the push registration token for a device, creating the device on first contact.
// @Tags        Subscriptions
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterTokenRequest  true  "Token registration payload"
//
// @Success     200  {object}  domain.Device
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /registration-tokens [put]
func (h *Handlers) RegisterToken(c *gin.Context) {
	var req RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "deviceKey and registrationToken required")
		return
	}
	dev, err := h.subSvc.RegisterToken(c.Request.Context(), req.DeviceKey, req.RegistrationToken)
	if err != nil {
		if errors.Is(err, services.ErrEmptyDeviceKey) || errors.Is(err, services.ErrEmptyToken) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, dev)
}

// ListSubscriptions godoc
// @ID          listSubscriptions
// @Summary     List a device's subscriptions
// @Description Returns the meals the given device is subscribed to, ordered by name.
// @Tags        Subscriptions
// @Produce     json
//
// @Param       deviceKey  path  string  true  "Device key"
//
// @Success     200  {array}   domain.Meal
// @Failure     404  {object}  handlers.ErrorResponse "Device not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /subscriptions/{deviceKey} [get]
func (h *Handlers) ListSubscriptions(c *gin.Context) {
	meals, err := h.subSvc.ListForDevice(c.Request.Context(), c.Param("deviceKey"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyDeviceKey):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrDeviceNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "device not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, meals)
}

// Subscribe godoc
// @ID          subscribe
// @Summary     Subscribe to a meal
// @Description Subscribes a device to notifications for a meal. Subscribing twice is harmless.
// @Tags        Subscriptions
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SubscriptionRequest  true  "Subscription payload"
//
// @Success     200  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Device or meal not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /subscriptions [post]
func (h *Handlers) Subscribe(c *gin.Context) {
	h.toggleSubscription(c, h.subSvc.Subscribe)
}

// Unsubscribe godoc
// @ID          unsubscribe
// @Summary     Unsubscribe from a meal
// @Description Removes a device's subscription to a meal. Unsubscribing twice is harmless.
// @Tags        Subscriptions
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SubscriptionRequest  true  "Subscription payload"
//
// @Success     200  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Device or meal not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /subscriptions [delete]
func (h *Handlers) Unsubscribe(c *gin.Context) {
	h.toggleSubscription(c, h.subSvc.Unsubscribe)
}

func (h *Handlers) toggleSubscription(c *gin.Context, op func(ctx context.Context, deviceKey string, mealID uint) (string, error)) {
	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "deviceKey and mealId required")
		return
	}
	msg, err := op(c.Request.Context(), req.DeviceKey, req.MealID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyDeviceKey):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrDeviceNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "device not found")
		case errors.Is(err, services.ErrMealNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "meal not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, StatusResponse{Message: msg})
}
