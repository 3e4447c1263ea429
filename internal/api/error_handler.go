package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/forum-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and a stable code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<code>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := resolveError(err, log, c)
		if status == http.StatusUnauthorized && (code == "unauthenticated" || code == "session_expired") {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="forum"`)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, errorResponse{Error: msg, Code: code})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid email or password"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "missing or invalid access token"
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, "session_expired", "session expired or logged out"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusUnauthorized, "account_not_found", "account no longer exists"
	case errors.Is(err, domain.ErrBoardNotFound):
		return http.StatusNotFound, "not_found", "board not found"
	case errors.Is(err, domain.ErrPostNotFound):
		return http.StatusNotFound, "not_found", "post not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden", "access forbidden"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "conflict", "email already registered"
	case errors.Is(err, domain.ErrBoardNameTaken):
		return http.StatusConflict, "conflict", "board name already taken"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict", "conflict"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "validation_failed", err.Error()
	case errors.Is(err, domain.ErrUnavailable):
		log.Warn().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("dependency unavailable")
		return http.StatusServiceUnavailable, "unavailable", "service temporarily unavailable"
	}

	// Echo's own errors (bind failures, 404 from router, timeouts, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, httpCode(he.Code), fmt.Sprintf("%v", he.Message)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal", "internal server error"
}

func httpCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "payload_too_large"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		if status >= 500 {
			return "internal"
		}
		return "bad_request"
	}
}
