// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response envelope shared by every endpoint. Errors
// always serialize as an ErrorResponse with a stable machine-readable code;
// fail() centralizes that shape and logs server-side failures with the
// request-scoped logger, so handlers never hand-build error JSON.
//
// A failed lookup answers like:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "meal not found"
//	}
//
// while success bodies are the handler's own payload, e.g.
//
//	HTTP/1.1 200 OK
//	{ "id": 42, "name": "Zupa pomidorowa", "category": "SOUP" }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Solvro/backend-topwr-sks/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by all endpoints. RequestID
// echoes the X-Request-ID header so client reports can be matched against
// server logs; Code is one of the errors.go constants; Message is safe to
// show to users. The struct doubles as the Swagger error schema.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"meal not found"`
}

// fail aborts the request with the structured error envelope. Statuses of
// 500 and above are additionally logged through the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail for callers outside this package,
// such as the router's NoRoute and NoMethod handlers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes body as JSON with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an empty 204 response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
