package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Dependencies are the services served over HTTP
type Dependencies struct {
	Volunteers   VolunteerService
	Events       EventService
	Plannings    PlanningService
	Workflows    WorkflowService
	Integrations IntegrationService
	Health       Pinger
}

// Server is the JSON HTTP API
type Server struct {
	echo   *echo.Echo
	logger *zap.Logger
}

// NewServer builds the router. Every /api/v1 route is scoped to the organisation
// named by the X-Org-ID header.
func NewServer(deps Dependencies, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	rootg := e.Group("")
	v1g := rootg.Group("/api/v1", orgScope())

	NewHealthCheckAPI(deps.Health).Setup(rootg)
	NewVolunteerAPI(deps.Volunteers, deps.Integrations, logger).Setup(v1g)
	NewEventAPI(deps.Events, deps.Integrations, logger).Setup(v1g)
	NewPlanningAPI(deps.Plannings, deps.Integrations, logger).Setup(v1g)
	NewWorkflowAPI(deps.Workflows, deps.Integrations, logger).Setup(v1g)

	return &Server{echo: e, logger: logger}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
