package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/clients/integration"
	"github.com/jakechorley/event-planner/pkg/clients/ticketingclient"
	"github.com/jakechorley/event-planner/pkg/core/model"
)

// TicketingSource fetches aggregated ticket sales for an external event reference
type TicketingSource interface {
	Summary(ctx context.Context, ref string) (*ticketingclient.Summary, error)
}

// TicketingSummary returns the ticket sales of the event from the ticketing platform
func TicketingSummary(
	ctx context.Context,
	events *EventService,
	source TicketingSource,
	logger *zap.Logger,
	org model.Org,
	eventID string,
) (*ticketingclient.Summary, error) {
	if source == nil {
		return nil, fmt.Errorf("ticketing: %w", integration.ErrNotConfigured)
	}

	event, err := events.Get(ctx, org, eventID)
	if err != nil {
		return nil, err
	}
	ref := strings.TrimSpace(event.TicketingRef)
	if ref == "" {
		return nil, invalid("ticketingRef", "is not set for event %s", event.Name)
	}

	logger.Debug("Fetching ticketing summary", zap.String("event_id", eventID), zap.String("ref", ref))

	summary, err := source.Summary(ctx, ref)
	if err != nil {
		logger.Warn("Ticketing summary unavailable",
			zap.String("event_id", eventID),
			zap.String("class", string(integration.Classify(err))),
			zap.Error(err))
		return nil, fmt.Errorf("failed to fetch ticketing summary: %w", err)
	}

	return summary, nil
}
