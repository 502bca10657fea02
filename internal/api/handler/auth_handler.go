package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/sandbox"
)

// AuthService is the part of the sandbox used by AuthHandler.
type AuthService interface {
	Login(ctx context.Context, role domain.Role, in sandbox.LoginInput) (*sandbox.AuthResponse, error)
	Register(ctx context.Context, role domain.Role, in sandbox.RegisterInput) (*sandbox.AuthResponse, error)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new vendor or distributor account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        role  path      string                 true  "vendor or distributor"
// @Param        body  body      sandbox.RegisterInput  true  "Account details"
// @Success      201   {object}  sandbox.AuthResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/{role}/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	role, err := roleParam(c)
	if err != nil {
		return err
	}
	var req sandbox.RegisterInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.authService.Register(c.Request().Context(), role, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login authenticates against the role's portal and returns a JWT.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        role  path      string              true  "vendor or distributor"
// @Param        body  body      sandbox.LoginInput  true  "Login credentials"
// @Success      200   {object}  sandbox.AuthResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/{role}/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	role, err := roleParam(c)
	if err != nil {
		return err
	}
	var req sandbox.LoginInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Request().Context(), role, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
