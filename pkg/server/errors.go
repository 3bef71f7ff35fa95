package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/core/prayer"
	"github.com/jakechorley/bethel-serve/pkg/core/roles"
	"github.com/jakechorley/bethel-serve/pkg/core/services"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

var (
	errUnauthorized     = echo.NewHTTPError(http.StatusUnauthorized, "admin session required")
	errSessionExpired   = echo.NewHTTPError(http.StatusUnauthorized, "admin session expired")
	errInvalidPassword  = echo.NewHTTPError(http.StatusUnauthorized, "invalid password")
	errMalformedRequest = echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
)

// errorResponse is the JSON body of every failed request
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// newHTTPErrorHandler maps domain errors to status codes. Unexpected errors are
// logged and answered with a generic 500.
func newHTTPErrorHandler(logger *zap.Logger, v *requestValidator) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := classifyError(err, v)
		if code >= http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		} else {
			logger.Debug("Request rejected",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
	}
}

func classifyError(err error, v *requestValidator) (int, errorResponse) {
	var (
		httpErr     *echo.HTTPError
		validErrs   validator.ValidationErrors
		conflictErr *roles.ConflictError
		capacityErr *roles.CapacityError
		incomplete  *roles.IncompleteError
		argErr      *services.ArgumentError
	)

	switch {
	case errors.As(err, &httpErr):
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, errorResponse{Error: msg}
	case errors.As(err, &validErrs):
		return http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: v.fieldErrors(validErrs)}
	case errors.As(err, &conflictErr), errors.As(err, &capacityErr):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.As(err, &incomplete):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, db.ErrVersionConflict),
		errors.Is(err, services.ErrDuplicateName),
		errors.Is(err, services.ErrMonthClosed),
		errors.Is(err, services.ErrMonthOpen),
		errors.Is(err, services.ErrDateNotEnabled),
		errors.Is(err, prayer.ErrNotEditing):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.As(err, &argErr), errors.Is(err, model.ErrUnknownSlot):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, services.ErrEmptyName):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, services.ErrPublishingDisabled):
		return http.StatusServiceUnavailable, errorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)}
	}
}
