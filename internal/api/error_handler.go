package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/sandbox"
)

// errorResponse is the error envelope the portal client reads.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps sandbox
// errors to status codes and renders {"message": "..."}. Unexpected errors
// are logged and reported as a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, sandbox.ErrInvalidCredentials), errors.Is(err, sandbox.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, sandbox.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, sandbox.ErrAccountNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, sandbox.ErrAccountExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error"
}
