package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/sandbox"
)

// RBAC lets through only tokens whose user type is one of allowed. It must
// run after Auth.
func RBAC(allowed ...domain.Role) echo.MiddlewareFunc {
	set := make(map[domain.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
			}
			if _, ok := set[claims.UserType]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, sandbox.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}
