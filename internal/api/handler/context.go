package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bizlink/partner-portal/internal/api/middleware"
	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/sandbox"
)

// ctxClaims extracts the claims injected by the Auth middleware. Their
// absence means the route was mounted without Auth.
func ctxClaims(c echo.Context) (*sandbox.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	}
	return claims, nil
}

// roleParam reads the :role path segment of the auth routes.
func roleParam(c echo.Context) (domain.Role, error) {
	role, ok := domain.ParseRole(c.Param("role"))
	if !ok {
		return "", domain.ErrInvalidRole
	}
	return role, nil
}
