// Package handlers exposes the hydrated catalogue records over a thin JSON
// API. Handlers parse input, call providers and stores, and render results;
// every failure is written as an ErrorResponse with a stable code.
//
// Example error response:
//
//	HTTP/1.1 502 Bad Gateway
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "upstream_error",
//	  "message": "catalogue API answered 500"
//	}
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/catalogue-admin/internal/filter"
	"github.com/tbourn/catalogue-admin/internal/http/middleware"
	"github.com/tbourn/catalogue-admin/internal/providers"
	"github.com/tbourn/catalogue-admin/internal/resolver"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"catalogue_entry 7 not found"`
}

// fail aborts with an ErrorResponse. 5xx responses are logged with the
// request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported variant of fail for router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failErr maps a provider, store or transport error to a response. kind is
// the record kind the endpoint serves: a missing record of that kind is a
// 404, while a missing reference to another kind (or an unknown status
// code) means the upstream data is inconsistent and becomes a 502.
func failErr(c *gin.Context, kind string, err error) {
	status, code, msg := classify(kind, err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	fail(c, status, code, msg)
}

func classify(kind string, err error) (int, string, string) {
	var (
		missing *resolver.MissingError
		se      *transport.StatusError
	)
	switch {
	case errors.Is(err, providers.ErrInvalidArgument):
		return http.StatusBadRequest, ErrCodeBadRequest, err.Error()
	case errors.Is(err, providers.ErrValidation):
		return http.StatusUnprocessableEntity, ErrCodeValidation, err.Error()
	case errors.Is(err, filter.ErrUnknownField),
		errors.Is(err, filter.ErrWrongValueKind),
		errors.Is(err, filter.ErrNotSortable),
		errors.Is(err, filter.ErrBadValue):
		return http.StatusBadRequest, ErrCodeBadFilter, err.Error()
	case transport.StatusCode(err) == http.StatusNotFound:
		return http.StatusNotFound, ErrCodeNotFound, kind + " not found"
	case errors.As(err, &missing) && missing.Kind == kind:
		return http.StatusNotFound, ErrCodeNotFound, missing.Error()
	case errors.Is(err, resolver.ErrNotFound):
		return http.StatusBadGateway, ErrCodeUnresolvedReference, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeUpstreamTimeout, "catalogue API timed out"
	case errors.As(err, &se) && (se.StatusCode == http.StatusBadRequest || se.StatusCode == http.StatusUnprocessableEntity):
		return http.StatusUnprocessableEntity, ErrCodeValidation, "catalogue API rejected the request"
	case errors.As(err, &se):
		return http.StatusBadGateway, ErrCodeUpstream, fmt.Sprintf("catalogue API answered %d", se.StatusCode)
	case errors.Is(err, transport.ErrTransport):
		return http.StatusBadGateway, ErrCodeUpstreamUnavailable, "catalogue API unreachable"
	}
	return http.StatusInternalServerError, ErrCodeInternal, "internal server error"
}

// ok writes a JSON success response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
