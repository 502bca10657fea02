package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bizlink/partner-portal/internal/pkg/validation"
)

// echoValidator adapts validation.Validator to echo.Validator so handlers
// can call c.Validate(req).
type echoValidator struct {
	v *validation.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() echo.Validator {
	return &echoValidator{v: validation.New()}
}

// Validate reports failures as a 400 carrying the joined field messages.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
