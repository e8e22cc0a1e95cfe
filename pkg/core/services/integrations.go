package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/clients/integration"
	"github.com/jakechorley/event-planner/pkg/clients/socialclient"
	"github.com/jakechorley/event-planner/pkg/clients/ticketingclient"
	"github.com/jakechorley/event-planner/pkg/core/model"
)

// Integrations binds the external clients to the services that use them.
// A nil client leaves its operations returning integration.ErrNotConfigured.
type Integrations struct {
	Events     *EventService
	Plannings  *PlanningService
	Workflows  *WorkflowService
	Volunteers *VolunteerService

	Publisher       PlanningPublisher
	SheetReader     VolunteerSheetReader
	PlanningSheetID string
	Mailer          Mailer
	Ticketing       TicketingSource
	Social          SocialAccount

	Logger *zap.Logger
}

func (i *Integrations) PublishPlanning(ctx context.Context, org model.Org, eventID string) (*PublishPlanningResult, error) {
	return PublishPlanning(ctx, i.Plannings, i.Publisher, i.PlanningSheetID, i.Logger, org, eventID)
}

func (i *Integrations) EmailShifts(ctx context.Context, org model.Org, eventID string) (*EmailShiftsResult, error) {
	return EmailShifts(ctx, i.Plannings, i.Mailer, i.Logger, org, eventID)
}

func (i *Integrations) TicketingSummary(ctx context.Context, org model.Org, eventID string) (*ticketingclient.Summary, error) {
	return TicketingSummary(ctx, i.Events, i.Ticketing, i.Logger, org, eventID)
}

func (i *Integrations) PublishCampaignPost(ctx context.Context, org model.Org, eventID, postID string) (*WorkflowState, error) {
	return PublishCampaignPost(ctx, i.Workflows, i.Social, i.Logger, org, eventID, postID)
}

func (i *Integrations) RecentMedia(ctx context.Context, limit int) ([]socialclient.Media, error) {
	return RecentMedia(ctx, i.Social, i.Logger, limit)
}

// ImportVolunteers copies new volunteers from a tab of the planning spreadsheet
func (i *Integrations) ImportVolunteers(ctx context.Context, org model.Org, tab string) (*ImportResult, error) {
	if i.SheetReader == nil || i.PlanningSheetID == "" {
		return nil, fmt.Errorf("planning spreadsheet: %w", integration.ErrNotConfigured)
	}
	return i.Volunteers.Import(ctx, org, i.SheetReader, i.PlanningSheetID, tab)
}
