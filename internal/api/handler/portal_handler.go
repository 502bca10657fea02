package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bizlink/partner-portal/internal/sandbox"
)

// DirectoryService is the part of the sandbox used by PortalHandler.
type DirectoryService interface {
	Account(ctx context.Context, id string) (*sandbox.Account, error)
	Accounts(ctx context.Context) ([]sandbox.Account, error)
	VendorDashboard(ctx context.Context, claims *sandbox.Claims) (*sandbox.VendorDashboard, error)
	DistributorDashboard(ctx context.Context, claims *sandbox.Claims) (*sandbox.DistributorDashboard, error)
}

// PortalHandler serves the authenticated read endpoints.
type PortalHandler struct {
	service DirectoryService
}

func NewPortalHandler(service DirectoryService) *PortalHandler {
	return &PortalHandler{service: service}
}

// Profile returns the account behind the bearer token.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sandbox.WireUser
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *PortalHandler) Profile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	acc, err := h.service.Account(c.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acc.Wire())
}

// Users lists every account.
//
// @Summary      All users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   sandbox.WireUser
// @Failure      401  {object}  map[string]string
// @Router       /users [get]
func (h *PortalHandler) Users(c echo.Context) error {
	accs, err := h.service.Accounts(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]sandbox.WireUser, 0, len(accs))
	for _, a := range accs {
		out = append(out, a.Wire())
	}
	return c.JSON(http.StatusOK, out)
}

// VendorDashboard returns the vendor view for the caller.
//
// @Summary      Vendor dashboard data
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sandbox.VendorDashboard
// @Failure      403  {object}  map[string]string
// @Router       /vendor/dashboard [get]
func (h *PortalHandler) VendorDashboard(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	data, err := h.service.VendorDashboard(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}

// DistributorDashboard returns the distributor view for the caller.
//
// @Summary      Distributor dashboard data
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sandbox.DistributorDashboard
// @Failure      403  {object}  map[string]string
// @Router       /distributor/dashboard [get]
func (h *PortalHandler) DistributorDashboard(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	data, err := h.service.DistributorDashboard(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}
