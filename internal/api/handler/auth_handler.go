package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/forum-system/internal/api/metrics"
	"github.com/99minutos/forum-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, account)
}

// Login authenticates an account and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	metrics.SessionsIssuedTotal.Inc()

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Logout invalidates the caller's session. Repeating it is harmless.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), account.ID); err != nil {
		return err
	}
	metrics.LogoutsTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  domain.Account
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}
