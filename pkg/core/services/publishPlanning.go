package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/clients/integration"
	"github.com/jakechorley/event-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/event-planner/pkg/core/model"
)

// PlanningPublisher writes a planning grid to a spreadsheet
type PlanningPublisher interface {
	PublishPlanning(ctx context.Context, spreadsheetID string, planning *sheetsclient.PublishedPlanning) (string, error)
}

// PublishPlanningResult describes the published tab
type PublishPlanningResult struct {
	EventName     string `json:"eventName"`
	TabTitle      string `json:"tabTitle"`
	ShiftCount    int    `json:"shiftCount"`
	AssignedCount int    `json:"assignedCount"`
}

// PublishPlanning writes the event's planning grid to a tab of the planning spreadsheet
func PublishPlanning(
	ctx context.Context,
	plannings *PlanningService,
	publisher PlanningPublisher,
	spreadsheetID string,
	logger *zap.Logger,
	org model.Org,
	eventID string,
) (*PublishPlanningResult, error) {
	if publisher == nil || spreadsheetID == "" {
		return nil, fmt.Errorf("planning spreadsheet: %w", integration.ErrNotConfigured)
	}

	logger.Debug("Publishing planning", zap.String("event_id", eventID), zap.String("spreadsheet_id", spreadsheetID))

	grid, err := plannings.Grid(ctx, org, eventID)
	if err != nil {
		return nil, err
	}

	published := &sheetsclient.PublishedPlanning{
		EventName: grid.Event.Name,
		EventDate: grid.Event.StartsAt,
		Posts:     make([]string, 0, len(grid.Posts)),
		Rows:      make([]sheetsclient.PublishedShiftRow, 0, len(grid.Rows)),
	}
	for _, post := range grid.Posts {
		published.Posts = append(published.Posts, post.Label())
	}

	assigned := 0
	for _, row := range grid.Rows {
		cells := make([][]string, 0, len(grid.Posts))
		for _, post := range grid.Posts {
			cells = append(cells, row.Posts[post])
			assigned += len(row.Posts[post])
		}
		published.Rows = append(published.Rows, sheetsclient.PublishedShiftRow{Shift: row.Shift, Cells: cells})
	}

	tabTitle, err := publisher.PublishPlanning(ctx, spreadsheetID, published)
	if err != nil {
		return nil, fmt.Errorf("failed to publish planning: %w", err)
	}

	logger.Info("Planning published",
		zap.String("event_id", eventID),
		zap.String("tab", tabTitle),
		zap.Int("assigned", assigned))

	return &PublishPlanningResult{
		EventName:     grid.Event.Name,
		TabTitle:      tabTitle,
		ShiftCount:    len(grid.Rows),
		AssignedCount: assigned,
	}, nil
}
