package api

import (
	"context"
	"io"

	"github.com/jakechorley/event-planner/pkg/clients/socialclient"
	"github.com/jakechorley/event-planner/pkg/clients/ticketingclient"
	"github.com/jakechorley/event-planner/pkg/core/milestones"
	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/services"
	"github.com/jakechorley/event-planner/pkg/core/workflow"
	"github.com/jakechorley/event-planner/pkg/db"
)

// The interfaces below are implemented by the types in pkg/core/services

type VolunteerService interface {
	List(ctx context.Context, org model.Org, filter db.VolunteerFilter) ([]model.Volunteer, error)
	Get(ctx context.Context, org model.Org, id string) (*model.Volunteer, error)
	Create(ctx context.Context, org model.Org, input services.VolunteerInput) (*model.Volunteer, error)
	Update(ctx context.Context, org model.Org, id string, update services.VolunteerUpdate) (*model.Volunteer, error)
	ToggleFavorite(ctx context.Context, org model.Org, id string) (*model.Volunteer, error)
}

type EventService interface {
	List(ctx context.Context, org model.Org, filter db.EventFilter) ([]model.Event, error)
	Get(ctx context.Context, org model.Org, id string) (*model.Event, error)
	Create(ctx context.Context, org model.Org, input services.EventInput) (*model.Event, error)
	Update(ctx context.Context, org model.Org, id string, update services.EventUpdate) (*model.Event, error)
	Delete(ctx context.Context, org model.Org, id string) error
}

type PlanningService interface {
	Load(ctx context.Context, org model.Org, eventID string) (*model.Planning, error)
	AddVolunteerToRoster(ctx context.Context, org model.Org, eventID, volunteerID string) (*model.Planning, error)
	RemoveVolunteerFromRoster(ctx context.Context, org model.Org, eventID, volunteerID string) (*model.Planning, error)
	Assign(ctx context.Context, org model.Org, eventID, shiftKey string, postID model.PostID, volunteerID string) (*model.Planning, error)
	Unassign(ctx context.Context, org model.Org, eventID, shiftKey string, postID model.PostID, volunteerID string) (*model.Planning, error)
	Grid(ctx context.Context, org model.Org, eventID string) (*services.PlanningGrid, error)
	ExportCSV(ctx context.Context, org model.Org, eventID string, w io.Writer) error
}

type WorkflowService interface {
	Load(ctx context.Context, org model.Org, eventID string) (*services.WorkflowState, error)
	Progress(ctx context.Context, org model.Org, eventID string) (milestones.Progress, error)
	Update(ctx context.Context, org model.Org, eventID string, patch workflow.Patch) (*services.WorkflowState, error)
	AdvancePhase(ctx context.Context, org model.Org, eventID string) (*services.NavigationResult, error)
	NextStep(ctx context.Context, org model.Org, eventID string) (*services.NavigationResult, error)
	PrevStep(ctx context.Context, org model.Org, eventID string) (*services.NavigationResult, error)
	SelectStep(ctx context.Context, org model.Org, eventID string, idx int) (*services.NavigationResult, error)
	SelectPhase(ctx context.Context, org model.Org, eventID string, raw string) (*services.NavigationResult, error)
	AddPost(ctx context.Context, org model.Org, eventID string, input services.PostInput) (*services.WorkflowState, *model.CampaignPost, error)
	UpdatePost(ctx context.Context, org model.Org, eventID, postID string, input services.PostInput) (*services.WorkflowState, error)
	DeletePost(ctx context.Context, org model.Org, eventID, postID string) (*services.WorkflowState, error)
}

type IntegrationService interface {
	PublishPlanning(ctx context.Context, org model.Org, eventID string) (*services.PublishPlanningResult, error)
	EmailShifts(ctx context.Context, org model.Org, eventID string) (*services.EmailShiftsResult, error)
	TicketingSummary(ctx context.Context, org model.Org, eventID string) (*ticketingclient.Summary, error)
	PublishCampaignPost(ctx context.Context, org model.Org, eventID, postID string) (*services.WorkflowState, error)
	RecentMedia(ctx context.Context, limit int) ([]socialclient.Media, error)
	ImportVolunteers(ctx context.Context, org model.Org, tab string) (*services.ImportResult, error)
}

// Pinger reports whether the record store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ VolunteerService   = (*services.VolunteerService)(nil)
	_ EventService       = (*services.EventService)(nil)
	_ PlanningService    = (*services.PlanningService)(nil)
	_ WorkflowService    = (*services.WorkflowService)(nil)
	_ IntegrationService = (*services.Integrations)(nil)
)
