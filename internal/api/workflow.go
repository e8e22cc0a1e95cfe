package api

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/services"
	"github.com/jakechorley/event-planner/pkg/core/workflow"
)

// workflowPatchRequest carries the fields a client may set directly.
// Position changes go through the navigation routes.
type workflowPatchRequest struct {
	Manual     map[string]bool `json:"manual"`
	Overrides  map[string]bool `json:"overrides"`
	ShotgunURL *string         `json:"shotgunUrl"`
}

type selectStepRequest struct {
	Step *int `json:"step"`
}

type selectPhaseRequest struct {
	Phase string `json:"phase"`
}

type mediaRequest struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type postRequest struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Networks    []string       `json:"networks"`
	Description string         `json:"description"`
	ScheduledAt *time.Time     `json:"scheduledAt"`
	Caption     string         `json:"caption"`
	Media       []mediaRequest `json:"media"`
	Verified    bool           `json:"verified"`
}

func (r postRequest) input() services.PostInput {
	input := services.PostInput{
		Name:        r.Name,
		Type:        r.Type,
		Networks:    r.Networks,
		Description: r.Description,
		ScheduledAt: r.ScheduledAt,
		Caption:     r.Caption,
		Verified:    r.Verified,
	}
	for _, m := range r.Media {
		input.Media = append(input.Media, model.Media{URL: m.URL, Type: m.Type})
	}
	return input
}

type WorkflowAPI struct {
	workflows    WorkflowService
	integrations IntegrationService
	logger       *zap.Logger
}

func NewWorkflowAPI(workflows WorkflowService, integrations IntegrationService, logger *zap.Logger) *WorkflowAPI {
	return &WorkflowAPI{workflows: workflows, integrations: integrations, logger: logger}
}

func (a *WorkflowAPI) Setup(g *echo.Group) {
	g.GET("/events/:id/workflow", a.getWorkflow)
	g.PATCH("/events/:id/workflow", a.updateWorkflow)
	g.POST("/events/:id/workflow/advance", a.advancePhase)
	g.POST("/events/:id/workflow/next", a.nextStep)
	g.POST("/events/:id/workflow/prev", a.prevStep)
	g.POST("/events/:id/workflow/select-step", a.selectStep)
	g.POST("/events/:id/workflow/select-phase", a.selectPhase)
	g.POST("/events/:id/workflow/posts", a.addPost)
	g.PUT("/events/:id/workflow/posts/:postId", a.updatePost)
	g.DELETE("/events/:id/workflow/posts/:postId", a.deletePost)
	g.POST("/events/:id/workflow/posts/:postId/publish", a.publishPost)
	g.GET("/events/:id/progress", a.getProgress)
	g.GET("/social/media", a.recentMedia)
}

func (a *WorkflowAPI) getWorkflow(c echo.Context) error {
	state, err := a.workflows.Load(c.Request().Context(), orgFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, state)
}

func (a *WorkflowAPI) updateWorkflow(c echo.Context) error {
	var req workflowPatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	patch := workflow.Patch{ShotgunURL: req.ShotgunURL}
	if len(req.Manual) > 0 {
		patch.Manual = make(map[model.ManualFlag]bool, len(req.Manual))
		for flag, value := range req.Manual {
			patch.Manual[model.ManualFlag(flag)] = value
		}
	}
	if len(req.Overrides) > 0 {
		patch.Overrides = make(map[model.Override]bool, len(req.Overrides))
		for override, value := range req.Overrides {
			patch.Overrides[model.Override(override)] = value
		}
	}
	if patch.IsEmpty() {
		return badRequest(c, "nothing to update")
	}

	state, err := a.workflows.Update(c.Request().Context(), orgFrom(c), c.Param("id"), patch)
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, state)
}

func (a *WorkflowAPI) advancePhase(c echo.Context) error {
	return a.navigation(c)(a.workflows.AdvancePhase(c.Request().Context(), orgFrom(c), c.Param("id")))
}

func (a *WorkflowAPI) nextStep(c echo.Context) error {
	return a.navigation(c)(a.workflows.NextStep(c.Request().Context(), orgFrom(c), c.Param("id")))
}

func (a *WorkflowAPI) prevStep(c echo.Context) error {
	return a.navigation(c)(a.workflows.PrevStep(c.Request().Context(), orgFrom(c), c.Param("id")))
}

func (a *WorkflowAPI) selectStep(c echo.Context) error {
	var req selectStepRequest
	if err := c.Bind(&req); err != nil || req.Step == nil {
		return badRequest(c, "step is required")
	}
	return a.navigation(c)(a.workflows.SelectStep(c.Request().Context(), orgFrom(c), c.Param("id"), *req.Step))
}

func (a *WorkflowAPI) selectPhase(c echo.Context) error {
	var req selectPhaseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return a.navigation(c)(a.workflows.SelectPhase(c.Request().Context(), orgFrom(c), c.Param("id"), req.Phase))
}

// navigation writes the result of a navigation call. A refused move is still a 200
// with moved set to false.
func (a *WorkflowAPI) navigation(c echo.Context) func(*services.NavigationResult, error) error {
	return func(result *services.NavigationResult, err error) error {
		if err != nil {
			return fail(c, a.logger, err)
		}
		return ok(c, result)
	}
}

func (a *WorkflowAPI) addPost(c echo.Context) error {
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	state, post, err := a.workflows.AddPost(c.Request().Context(), orgFrom(c), c.Param("id"), req.input())
	if err != nil {
		return fail(c, a.logger, err)
	}
	return created(c, map[string]any{"post": post, "state": state})
}

func (a *WorkflowAPI) updatePost(c echo.Context) error {
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	state, err := a.workflows.UpdatePost(c.Request().Context(), orgFrom(c), c.Param("id"), c.Param("postId"), req.input())
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, state)
}

func (a *WorkflowAPI) deletePost(c echo.Context) error {
	state, err := a.workflows.DeletePost(c.Request().Context(), orgFrom(c), c.Param("id"), c.Param("postId"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, state)
}

func (a *WorkflowAPI) publishPost(c echo.Context) error {
	state, err := a.integrations.PublishCampaignPost(c.Request().Context(), orgFrom(c), c.Param("id"), c.Param("postId"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, state)
}

func (a *WorkflowAPI) getProgress(c echo.Context) error {
	progress, err := a.workflows.Progress(c.Request().Context(), orgFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, progress)
}

func (a *WorkflowAPI) recentMedia(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return badRequest(c, "limit must be a positive number")
		}
		limit = parsed
	}

	media, err := a.integrations.RecentMedia(c.Request().Context(), limit)
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, media)
}
