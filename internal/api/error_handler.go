package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// errorEnvelope is the canonical error body for all API failures.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally; their detail reaches the client
//     only in development mode.
//   - Renders the consistent envelope {"success": false, "message": ...}.
func NewHTTPErrorHandler(log zerolog.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, detail := resolveError(err, log, c, development)
		_ = c.JSON(code, errorEnvelope{Message: msg, Error: detail})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, development bool) (code int, msg, detail string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), ""
	}

	// Known domain errors map to deterministic HTTP codes. The error text
	// itself is safe to show; denial reasons in particular must reach the
	// client verbatim.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error(), ""
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", ""
	case errors.Is(err, domain.ErrAccountPending), errors.Is(err, domain.ErrAccountRejected):
		return http.StatusForbidden, err.Error(), ""
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error(), ""
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", ""
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound, "listing not found", ""
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email already registered", ""
	case errors.Is(err, domain.ErrIDAllocation):
		// Transient: the client may simply retry the create.
		return http.StatusConflict, "could not allocate a listing id, please retry", ""
	}

	// Unexpected error: log the real cause, sanitize the response.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	if development {
		return http.StatusInternalServerError, "internal server error", err.Error()
	}
	return http.StatusInternalServerError, "internal server error", ""
}
