package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthCheckAPI struct {
	db Pinger
}

func NewHealthCheckAPI(db Pinger) *HealthCheckAPI {
	return &HealthCheckAPI{db: db}
}

func (a *HealthCheckAPI) Setup(g *echo.Group) {
	g.GET("/healthz", a.healthCheck)
}

func (a *HealthCheckAPI) healthCheck(c echo.Context) error {
	if a.db != nil {
		if err := a.db.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, BaseResponse{Message: err.Error()})
		}
	}
	return c.JSON(http.StatusOK, BaseResponse{Message: "healthy"})
}
