package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/services"
	"github.com/jakechorley/event-planner/pkg/db"
)

type eventRequest struct {
	Name         string    `json:"name"`
	StartsAt     time.Time `json:"startsAt"`
	EndTime      string    `json:"endTime"`
	Brief        string    `json:"brief"`
	TicketingRef string    `json:"ticketingRef"`
}

type eventPatchRequest struct {
	Name         *string    `json:"name"`
	StartsAt     *time.Time `json:"startsAt"`
	EndTime      *string    `json:"endTime"`
	Brief        *string    `json:"brief"`
	TicketingRef *string    `json:"ticketingRef"`
}

type EventAPI struct {
	events       EventService
	integrations IntegrationService
	logger       *zap.Logger
}

func NewEventAPI(events EventService, integrations IntegrationService, logger *zap.Logger) *EventAPI {
	return &EventAPI{events: events, integrations: integrations, logger: logger}
}

func (a *EventAPI) Setup(g *echo.Group) {
	g.GET("/events", a.listEvents)
	g.POST("/events", a.createEvent)
	g.GET("/events/:id", a.getEvent)
	g.PATCH("/events/:id", a.updateEvent)
	g.DELETE("/events/:id", a.deleteEvent)
	g.GET("/events/:id/ticketing", a.ticketingSummary)
}

func (a *EventAPI) listEvents(c echo.Context) error {
	var filter db.EventFilter
	var err error
	if filter.From, err = parseDateParam(c.QueryParam("from")); err != nil {
		return badRequest(c, "from must be a date (2006-01-02) or an RFC 3339 time")
	}
	if filter.To, err = parseDateParam(c.QueryParam("to")); err != nil {
		return badRequest(c, "to must be a date (2006-01-02) or an RFC 3339 time")
	}

	events, err := a.events.List(c.Request().Context(), orgFrom(c), filter)
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, events)
}

func (a *EventAPI) getEvent(c echo.Context) error {
	event, err := a.events.Get(c.Request().Context(), orgFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, event)
}

func (a *EventAPI) createEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	event, err := a.events.Create(c.Request().Context(), orgFrom(c), services.EventInput{
		Name:         req.Name,
		StartsAt:     req.StartsAt,
		EndTime:      req.EndTime,
		Brief:        req.Brief,
		TicketingRef: req.TicketingRef,
	})
	if err != nil {
		return fail(c, a.logger, err)
	}
	return created(c, event)
}

func (a *EventAPI) updateEvent(c echo.Context) error {
	var req eventPatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	event, err := a.events.Update(c.Request().Context(), orgFrom(c), c.Param("id"), services.EventUpdate{
		Name:         req.Name,
		StartsAt:     req.StartsAt,
		EndTime:      req.EndTime,
		Brief:        req.Brief,
		TicketingRef: req.TicketingRef,
	})
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, event)
}

func (a *EventAPI) deleteEvent(c echo.Context) error {
	if err := a.events.Delete(c.Request().Context(), orgFrom(c), c.Param("id")); err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, nil)
}

func (a *EventAPI) ticketingSummary(c echo.Context) error {
	summary, err := a.integrations.TicketingSummary(c.Request().Context(), orgFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, a.logger, err)
	}
	return ok(c, summary)
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
