package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/clients/integration"
	"github.com/jakechorley/event-planner/pkg/core/serialq"
	"github.com/jakechorley/event-planner/pkg/core/services"
	"github.com/jakechorley/event-planner/pkg/db"
)

// BaseResponse wraps every JSON response body
type BaseResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	// Field names the rejected input on validation errors
	Field string `json:"field,omitempty"`
	// Class is set on integration errors: transient or configuration
	Class string `json:"class,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, BaseResponse{Message: "success", Data: data})
}

func created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, BaseResponse{Message: "success", Data: data})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, BaseResponse{Message: message})
}

// statusFor maps an error onto the HTTP status clients act on
func statusFor(err error) int {
	var statusErr *integration.StatusError
	switch {
	case services.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case integration.Classify(err) == integration.ClassConfiguration:
		return http.StatusFailedDependency
	case integration.Classify(err) == integration.ClassTransient, errors.Is(err, serialq.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error response
func fail(c echo.Context, logger *zap.Logger, err error) error {
	status := statusFor(err)
	response := BaseResponse{Message: err.Error()}

	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		response.Field = validationErr.Field
	}
	switch status {
	case http.StatusFailedDependency, http.StatusServiceUnavailable, http.StatusBadGateway:
		response.Class = string(integration.Classify(err))
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err))
	}

	return c.JSON(status, response)
}
