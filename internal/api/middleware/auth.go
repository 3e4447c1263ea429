package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/forum-system/internal/api/metrics"
	"github.com/99minutos/forum-system/internal/core/domain"
)

// AccountContextKey is where Auth stores the authenticated *domain.Account.
const AccountContextKey = "account"

// TokenValidator resolves a bearer token to its account.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*domain.Account, error)
}

// Auth validates the bearer token against the session manager and injects the
// account into the context. Failures are returned to the central error
// handler.
func Auth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.SessionValidationsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			account, err := validator.Validate(c.Request().Context(), token)
			if err != nil {
				metrics.SessionValidationsTotal.WithLabelValues(validationResult(err)).Inc()
				return err
			}
			metrics.SessionValidationsTotal.WithLabelValues("ok").Inc()

			c.Set(AccountContextKey, account)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func validationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return "expired"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	default:
		return "unauthenticated"
	}
}
