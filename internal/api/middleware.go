package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/model"
)

const (
	headerOrgID   = "X-Org-ID"
	headerOrgSlug = "X-Org-Slug"
	orgContextKey = "org"
)

// requestLogger writes one zap entry per request
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if org, ok := c.Get(orgContextKey).(model.Org); ok {
				fields = append(fields, zap.String("org_id", org.ID))
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("HTTP request", fields...)
			return nil
		},
	})
}

// orgScope rejects requests without an organisation and stores it on the context
func orgScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			org := model.Org{
				ID:   strings.TrimSpace(c.Request().Header.Get(headerOrgID)),
				Slug: strings.TrimSpace(c.Request().Header.Get(headerOrgSlug)),
			}
			if org.IsZero() {
				return c.JSON(http.StatusBadRequest, BaseResponse{Message: "missing " + headerOrgID + " header"})
			}
			c.Set(orgContextKey, org)
			return next(c)
		}
	}
}

func orgFrom(c echo.Context) model.Org {
	org, _ := c.Get(orgContextKey).(model.Org)
	return org
}
