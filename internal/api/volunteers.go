package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/services"
	"github.com/jakechorley/event-planner/pkg/db"
)

type volunteerRequest struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Favorite bool   `json:"favorite"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Notes    string `json:"notes"`
}

type volunteerPatchRequest struct {
	Name     *string `json:"name"`
	Kind     *string `json:"kind"`
	Favorite *bool   `json:"favorite"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Notes    *string `json:"notes"`
}

type importRequest struct {
	Tab string `json:"tab"`
}

type VolunteerAPI struct {
	volunteers   VolunteerService
	integrations IntegrationService
	logger       *zap.Logger
}

func NewVolunteerAPI(volunteers VolunteerService, integrations IntegrationService, logger *zap.Logger) *VolunteerAPI {
	return &VolunteerAPI{volunteers: volunteers, integrations: integrations, logger: logger}
}

func (a *VolunteerAPI) Setup(g *echo.Group) {
	g.GET("/volunteers", a.listVolunteers)
	g.POST("/volunteers", a.createVolunteer)
	g.POST("/volunteers/import", a.importVolunteers)
	g.GET("/volunteers/:id", a.getVolunteer)
	g.PATCH("/volunteers/:id", a.updateVolunteer)
	g.POST("/volunteers/:id/favorite", a.toggleFavorite)
}

func (a *VolunteerAPI) listVolunteers(c echo.Context) error {
	filter := db.VolunteerFilter{Kind: c.QueryParam("kind")}
	if raw := c.QueryParam("favorites"); raw != "" {
		favorites, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "favorites must be true or false")
		}
		filter.FavoritesOnly = favorites
	}

	volunteers, err := a.volunteers.List(c.Request().Context(), orgFrom(c), filter)
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, volunteers)
}

func (a *VolunteerAPI) getVolunteer(c echo.Context) error {
	volunteer, err := a.volunteers.Get(c.Request().Context(), orgFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, volunteer)
}

func (a *VolunteerAPI) createVolunteer(c echo.Context) error {
	var req volunteerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	volunteer, err := a.volunteers.Create(c.Request().Context(), orgFrom(c), services.VolunteerInput{
		Name:     req.Name,
		Kind:     req.Kind,
		Favorite: req.Favorite,
		Phone:    req.Phone,
		Email:    req.Email,
		Notes:    req.Notes,
	})
	if err != nil {
		return fail(c, a.logger, err)
	}
	return created(c, volunteer)
}

func (a *VolunteerAPI) updateVolunteer(c echo.Context) error {
	var req volunteerPatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	volunteer, err := a.volunteers.Update(c.Request().Context(), orgFrom(c), c.Param("id"), services.VolunteerUpdate{
		Name:     req.Name,
		Kind:     req.Kind,
		Favorite: req.Favorite,
		Phone:    req.Phone,
		Email:    req.Email,
		Notes:    req.Notes,
	})
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, volunteer)
}

func (a *VolunteerAPI) toggleFavorite(c echo.Context) error {
	volunteer, err := a.volunteers.ToggleFavorite(c.Request().Context(), orgFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, volunteer)
}

func (a *VolunteerAPI) importVolunteers(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Tab == "" {
		req.Tab = "Volunteers"
	}

	result, err := a.integrations.ImportVolunteers(c.Request().Context(), orgFrom(c), req.Tab)
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, result)
}
