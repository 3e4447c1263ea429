package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// bindAndValidate decodes the request body and runs the struct validator.
// Decoding failures are a 400, rule violations a 422.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	return c.Validate(req)
}

func bindQuery(c echo.Context) (listQuery, error) {
	var q listQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters").SetInternal(err)
	}
	return q, c.Validate(q)
}
