package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

func render(t *testing.T, err error, development bool) (int, errorEnvelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop(), development)(err, c)

	var body errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("%w: price is required", domain.ErrValidation), http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrAccountPending, http.StatusForbidden},
		{domain.ErrAccountRejected, http.StatusForbidden},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrListingNotFound, http.StatusNotFound},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrIDAllocation, http.StatusConflict},
	}
	for _, tc := range tests {
		code, body := render(t, tc.err, false)
		if code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		if body.Success {
			t.Fatalf("%v: error envelope must not claim success", tc.err)
		}
		if body.Message == "" {
			t.Fatalf("%v: message must not be empty", tc.err)
		}
	}
}

func TestHTTPErrorHandler_ForbiddenReasonReachesClient(t *testing.T) {
	err := fmt.Errorf("%w: only admins can approve listings", domain.ErrForbidden)
	_, body := render(t, err, false)
	if body.Message != err.Error() {
		t.Fatalf("denial reason lost: %q", body.Message)
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := render(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), false)
	if code != http.StatusBadRequest || body.Message != "invalid payload" {
		t.Fatalf("echo error not passed through: %d %+v", code, body)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorSanitized(t *testing.T) {
	cause := errors.New("mongo: connection reset")

	code, body := render(t, cause, false)
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Error != "" || body.Message != "internal server error" {
		t.Fatalf("internal detail leaked in production mode: %+v", body)
	}

	_, body = render(t, cause, true)
	if body.Error != cause.Error() {
		t.Fatalf("development mode must include detail, got %+v", body)
	}
}
