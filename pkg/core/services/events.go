package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/db"
)

// EventInput is the data accepted when creating an event
type EventInput struct {
	Name         string `validate:"required"`
	StartsAt     time.Time
	EndTime      string `validate:"omitempty,hhmm"`
	Brief        string
	TicketingRef string
}

// EventUpdate is a partial event update; nil fields are left unchanged
type EventUpdate struct {
	Name         *string
	StartsAt     *time.Time
	EndTime      *string
	Brief        *string
	TicketingRef *string
}

// EventService manages an organisation's events
type EventService struct {
	store    db.EventStore
	logger   *zap.Logger
	settings Settings
}

// NewEventService creates an event service
func NewEventService(store db.EventStore, logger *zap.Logger, settings Settings) *EventService {
	return &EventService{store: store, logger: logger, settings: settings}
}

// List returns events ordered by start time
func (s *EventService) List(ctx context.Context, org model.Org, filter db.EventFilter) ([]model.Event, error) {
	records, err := s.store.ListEvents(ctx, org, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]model.Event, 0, len(records))
	for _, record := range records {
		events = append(events, toModelEvent(record, s.settings.location()))
	}
	return events, nil
}

// Get returns one event
func (s *EventService) Get(ctx context.Context, org model.Org, id string) (*model.Event, error) {
	record, err := s.store.GetEvent(ctx, org, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	event := toModelEvent(*record, s.settings.location())
	return &event, nil
}

// Create validates the input and inserts a new event
func (s *EventService) Create(ctx context.Context, org model.Org, input EventInput) (*model.Event, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.EndTime = strings.TrimSpace(input.EndTime)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.StartsAt.IsZero() {
		return nil, invalid("startsAt", "is required")
	}

	record := &db.Event{
		ID:           uuid.New().String(),
		Name:         input.Name,
		StartsAt:     input.StartsAt,
		EndTime:      input.EndTime,
		Brief:        input.Brief,
		TicketingRef: strings.TrimSpace(input.TicketingRef),
	}

	s.logger.Debug("Creating event",
		zap.String("org_id", org.ID),
		zap.String("id", record.ID),
		zap.Time("starts_at", record.StartsAt))

	if err := s.store.InsertEvent(ctx, org, record); err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	event := toModelEvent(*record, s.settings.location())
	return &event, nil
}

// Update applies a partial update to an event
func (s *EventService) Update(ctx context.Context, org model.Org, id string, update EventUpdate) (*model.Event, error) {
	patch := db.EventPatch{
		StartsAt:     update.StartsAt,
		Brief:        update.Brief,
		TicketingRef: update.TicketingRef,
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, invalid("name", "is required")
		}
		patch.Name = &name
	}
	if update.StartsAt != nil && update.StartsAt.IsZero() {
		return nil, invalid("startsAt", "is required")
	}
	if update.EndTime != nil {
		endTime := strings.TrimSpace(*update.EndTime)
		if endTime != "" && !isTimeOfDay(endTime) {
			return nil, invalid("endTime", "must be a time of day formatted HH:MM")
		}
		patch.EndTime = &endTime
	}

	record, err := s.store.UpdateEvent(ctx, org, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	event := toModelEvent(*record, s.settings.location())
	return &event, nil
}

// Delete removes an event. Its planning and workflow are left in place.
func (s *EventService) Delete(ctx context.Context, org model.Org, id string) error {
	s.logger.Debug("Deleting event", zap.String("org_id", org.ID), zap.String("id", id))

	if err := s.store.DeleteEvent(ctx, org, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func isTimeOfDay(value string) bool {
	return validate.Var(value, "hhmm") == nil
}
