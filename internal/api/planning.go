package api

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/model"
)

type rosterRequest struct {
	VolunteerID string `json:"volunteerId"`
}

type assignmentRequest struct {
	Shift       string `json:"shift" query:"shift"`
	Post        string `json:"post" query:"post"`
	VolunteerID string `json:"volunteerId" query:"volunteerId"`
}

type PlanningAPI struct {
	plannings    PlanningService
	integrations IntegrationService
	logger       *zap.Logger
}

func NewPlanningAPI(plannings PlanningService, integrations IntegrationService, logger *zap.Logger) *PlanningAPI {
	return &PlanningAPI{plannings: plannings, integrations: integrations, logger: logger}
}

func (a *PlanningAPI) Setup(g *echo.Group) {
	g.GET("/events/:id/planning", a.getPlanning)
	g.GET("/events/:id/planning/grid", a.getGrid)
	g.GET("/events/:id/planning/csv", a.exportCSV)
	g.POST("/events/:id/planning/publish", a.publishPlanning)
	g.POST("/events/:id/planning/email", a.emailShifts)
	g.POST("/events/:id/roster", a.addToRoster)
	g.DELETE("/events/:id/roster/:volunteerId", a.removeFromRoster)
	g.PUT("/events/:id/assignments", a.assign)
	g.DELETE("/events/:id/assignments", a.unassign)
}

func (a *PlanningAPI) getPlanning(c echo.Context) error {
	planning, err := a.plannings.Load(c.Request().Context(), orgFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, planning)
}

func (a *PlanningAPI) getGrid(c echo.Context) error {
	grid, err := a.plannings.Grid(c.Request().Context(), orgFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, grid)
}

func (a *PlanningAPI) exportCSV(c echo.Context) error {
	var buf bytes.Buffer
	if err := a.plannings.ExportCSV(c.Request().Context(), orgFrom(c), c.Param("id"), &buf); err != nil {
		return fail(c, a.logger, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="planning-`+c.Param("id")+`.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (a *PlanningAPI) publishPlanning(c echo.Context) error {
	result, err := a.integrations.PublishPlanning(c.Request().Context(), orgFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, result)
}

func (a *PlanningAPI) emailShifts(c echo.Context) error {
	result, err := a.integrations.EmailShifts(c.Request().Context(), orgFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, result)
}

func (a *PlanningAPI) addToRoster(c echo.Context) error {
	var req rosterRequest
	if err := c.Bind(&req); err != nil || req.VolunteerID == "" {
		return badRequest(c, "volunteerId is required")
	}

	planning, err := a.plannings.AddVolunteerToRoster(c.Request().Context(), orgFrom(c), c.Param("id"), req.VolunteerID)
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, planning)
}

func (a *PlanningAPI) removeFromRoster(c echo.Context) error {
	planning, err := a.plannings.RemoveVolunteerFromRoster(c.Request().Context(), orgFrom(c), c.Param("id"), c.Param("volunteerId"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, planning)
}

func (a *PlanningAPI) assign(c echo.Context) error {
	var req assignmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	planning, err := a.plannings.Assign(c.Request().Context(), orgFrom(c), c.Param("id"), req.Shift, model.PostID(req.Post), req.VolunteerID)
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, planning)
}

func (a *PlanningAPI) unassign(c echo.Context) error {
	var req assignmentRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return badRequest(c, "invalid query parameters")
	}

	planning, err := a.plannings.Unassign(c.Request().Context(), orgFrom(c), c.Param("id"), req.Shift, model.PostID(req.Post), req.VolunteerID)
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, planning)
}
