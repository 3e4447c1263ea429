package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/forum-system/internal/core/domain"
)

type stubValidator struct {
	token   string
	account *domain.Account
	err     error
}

func (s *stubValidator) Validate(_ context.Context, token string) (*domain.Account, error) {
	s.token = token
	if s.err != nil {
		return nil, s.err
	}
	return s.account, nil
}

func run(t *testing.T, mw echo.MiddlewareFunc, header string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, called, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	stub := &stubValidator{account: &domain.Account{ID: 7, Email: "alice@example.com"}}

	c, called, err := run(t, Auth(stub), "Bearer good-token")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if stub.token != "good-token" {
		t.Fatalf("validator got token %q", stub.token)
	}
	acc, ok := c.Get(AccountContextKey).(*domain.Account)
	if !ok || acc.ID != 7 {
		t.Fatalf("account not set: %v", c.Get(AccountContextKey))
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	stub := &stubValidator{account: &domain.Account{ID: 1}}

	if _, called, err := run(t, Auth(stub), "bearer abc"); err != nil || !called {
		t.Fatalf("expected lowercase scheme to pass, err=%v called=%v", err, called)
	}
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "Bearer", "Bearer   "} {
		stub := &stubValidator{account: &domain.Account{ID: 1}}
		_, called, err := run(t, Auth(stub), header)
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("header %q: expected ErrUnauthenticated, got %v", header, err)
		}
		if called {
			t.Errorf("header %q: next must not be called", header)
		}
		if stub.token != "" {
			t.Errorf("header %q: validator must not be consulted", header)
		}
	}
}

func TestAuthMiddleware_PropagatesValidationErrors(t *testing.T) {
	for _, want := range []error{domain.ErrSessionExpired, domain.ErrUnauthenticated, domain.ErrUnavailable, domain.ErrAccountNotFound} {
		_, called, err := run(t, Auth(&stubValidator{err: want}), "Bearer tok")
		if !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
		if called {
			t.Errorf("%v: next must not be called", want)
		}
	}
}
