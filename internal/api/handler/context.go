package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/forum-system/internal/api/middleware"
	"github.com/99minutos/forum-system/internal/core/domain"
)

// currentAccount returns the account injected by the Auth middleware. Its
// absence means the route was mounted without the middleware.
func currentAccount(c echo.Context) (*domain.Account, error) {
	acc, ok := c.Get(middleware.AccountContextKey).(*domain.Account)
	if !ok || acc == nil {
		return nil, domain.ErrUnauthenticated
	}
	return acc, nil
}

// pathID parses a positive integer path parameter. Malformed ids are
// reported as not found: no entity can carry them.
func pathID(c echo.Context, name string, notFound error) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}
