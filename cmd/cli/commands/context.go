package commands

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/internal/config"
	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/serialq"
	"github.com/jakechorley/event-planner/pkg/core/services"
	"github.com/jakechorley/event-planner/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands.
// It is filled in by the root command before any command runs.
type AppContext struct {
	Cfg          *config.Config
	Database     *postgres.DB
	Queue        *serialq.Queue
	Volunteers   *services.VolunteerService
	Events       *services.EventService
	Plannings    *services.PlanningService
	Workflows    *services.WorkflowService
	Integrations *services.Integrations
	Logger       *zap.Logger
	Ctx          context.Context

	// OrgID and OrgSlug are bound to the persistent --org and --org-slug flags
	OrgID   string
	OrgSlug string
}

// Org returns the organisation selected on the command line
func (a *AppContext) Org() (model.Org, error) {
	org := model.Org{ID: strings.TrimSpace(a.OrgID), Slug: strings.TrimSpace(a.OrgSlug)}
	if org.IsZero() {
		return model.Org{}, errors.New("an organisation is required (--org)")
	}
	return org, nil
}

