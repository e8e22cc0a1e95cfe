package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/planning"
	"github.com/jakechorley/event-planner/pkg/core/serialq"
	"github.com/jakechorley/event-planner/pkg/core/shiftgrid"
	"github.com/jakechorley/event-planner/pkg/db"
)

// PlanningService manages event rosters and shift assignments.
// Mutations of one event's planning are applied one at a time, in call order.
type PlanningService struct {
	plannings  db.PlanningStore
	events     db.EventStore
	volunteers db.VolunteerStore
	queue      *serialq.Queue
	logger     *zap.Logger
	settings   Settings
}

// NewPlanningService creates a planning service
func NewPlanningService(store db.Database, queue *serialq.Queue, logger *zap.Logger, settings Settings) *PlanningService {
	return &PlanningService{
		plannings:  store,
		events:     store,
		volunteers: store,
		queue:      queue,
		logger:     logger,
		settings:   settings,
	}
}

// GridRow holds the display names assigned to each post during one shift
type GridRow struct {
	Shift string                    `json:"shift"`
	Posts map[model.PostID][]string `json:"posts"`
}

// PlanningGrid is the shift × post view of an event's planning
type PlanningGrid struct {
	Event   model.Event       `json:"event"`
	EndTime string            `json:"endTime"`
	Posts   []model.PostID    `json:"posts"`
	Rows    []GridRow         `json:"rows"`
	Roster  []model.Volunteer `json:"roster"`
	// Names maps volunteer id to its display name
	Names map[string]string `json:"names"`
}

// planningCSVRow is one exported shift × post cell
type planningCSVRow struct {
	Shift      string `csv:"shift"`
	Post       string `csv:"post"`
	Volunteers string `csv:"volunteers"`
	Count      int    `csv:"count"`
}

// Load returns the event's planning, empty if none has been saved yet
func (s *PlanningService) Load(ctx context.Context, org model.Org, eventID string) (*model.Planning, error) {
	record, err := s.plannings.GetPlanning(ctx, org, eventID)
	if errors.Is(err, db.ErrNotFound) {
		return model.NewPlanning(eventID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get planning: %w", err)
	}
	return toModelPlanning(record), nil
}

// AddVolunteerToRoster adds an existing volunteer to the event roster
func (s *PlanningService) AddVolunteerToRoster(ctx context.Context, org model.Org, eventID, volunteerID string) (*model.Planning, error) {
	if _, err := s.volunteers.GetVolunteer(ctx, org, volunteerID); err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}

	return s.mutate(ctx, org, eventID, func(p *model.Planning) (bool, error) {
		return planning.AddToRoster(p, volunteerID), nil
	})
}

// RemoveVolunteerFromRoster removes the volunteer from the roster and from every post they hold
func (s *PlanningService) RemoveVolunteerFromRoster(ctx context.Context, org model.Org, eventID, volunteerID string) (*model.Planning, error) {
	return s.mutate(ctx, org, eventID, func(p *model.Planning) (bool, error) {
		before := countAssignments(p)
		removed := planning.RemoveFromRoster(p, volunteerID)
		return removed || countAssignments(p) != before, nil
	})
}

// Assign puts the volunteer on a post for the shift, releasing any other post they
// hold in that shift
func (s *PlanningService) Assign(ctx context.Context, org model.Org, eventID, shiftKey string, postID model.PostID, volunteerID string) (*model.Planning, error) {
	shiftKey, err := validateAssignment(shiftKey, postID, volunteerID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Assigning volunteer",
		zap.String("event_id", eventID),
		zap.String("shift", shiftKey),
		zap.String("post", string(postID)),
		zap.String("volunteer_id", volunteerID))

	return s.mutate(ctx, org, eventID, func(p *model.Planning) (bool, error) {
		if err := planning.Assign(p, shiftKey, postID, volunteerID); err != nil {
			return false, &ValidationError{Field: "post", Message: err.Error(), Err: err}
		}
		return true, nil
	})
}

// Unassign removes the volunteer from a post for the shift
func (s *PlanningService) Unassign(ctx context.Context, org model.Org, eventID, shiftKey string, postID model.PostID, volunteerID string) (*model.Planning, error) {
	if minutes, err := shiftgrid.ParseTimeOfDay(shiftKey); err == nil {
		shiftKey = shiftgrid.FormatTimeOfDay(minutes)
	}

	return s.mutate(ctx, org, eventID, func(p *model.Planning) (bool, error) {
		return planning.Unassign(p, shiftKey, postID, volunteerID), nil
	})
}

// mutate loads, changes and saves the planning inside the event's queue lane.
// The save is skipped when change reports nothing changed.
func (s *PlanningService) mutate(ctx context.Context, org model.Org, eventID string, change func(p *model.Planning) (bool, error)) (*model.Planning, error) {
	var result *model.Planning
	err := s.queue.Do(ctx, planningKey(org, eventID), func() error {
		ctx := context.WithoutCancel(ctx)

		current, err := s.Load(ctx, org, eventID)
		if err != nil {
			return err
		}

		changed, err := change(current)
		if err != nil {
			return err
		}

		if changed {
			if err := s.plannings.SavePlanning(ctx, org, toDBPlanning(current)); err != nil {
				return fmt.Errorf("failed to save planning: %w", err)
			}
		}

		result = planning.Clone(current)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Grid builds the shift × post view of the event's planning with volunteer display names
func (s *PlanningService) Grid(ctx context.Context, org model.Org, eventID string) (*PlanningGrid, error) {
	record, err := s.events.GetEvent(ctx, org, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	event := toModelEvent(*record, s.settings.location())

	current, err := s.Load(ctx, org, eventID)
	if err != nil {
		return nil, err
	}

	endTime := s.settings.endTimeFor(event.StartsAt, event.EndTime)
	shifts, err := shiftgrid.GenerateShiftKeys(event.StartsAt, endTime)
	if err != nil {
		return nil, fmt.Errorf("failed to generate shifts for event %s: %w", eventID, err)
	}

	s.logger.Debug("Building planning grid",
		zap.String("event_id", eventID),
		zap.String("end_time", endTime),
		zap.Int("shifts", len(shifts)),
		zap.Int("roster", len(current.VolunteerIDs)))

	roster, names, err := s.rosterNames(ctx, org, current)
	if err != nil {
		return nil, err
	}

	grid := &PlanningGrid{
		Event:   event,
		EndTime: endTime,
		Posts:   model.Posts,
		Rows:    make([]GridRow, 0, len(shifts)),
		Roster:  roster,
		Names:   names,
	}
	for _, shift := range shifts {
		row := GridRow{Shift: shift, Posts: make(map[model.PostID][]string, len(model.Posts))}
		for _, post := range model.Posts {
			assigned := planning.VolunteersAt(current, shift, post)
			row.Posts[post] = make([]string, 0, len(assigned))
			for _, id := range assigned {
				row.Posts[post] = append(row.Posts[post], displayName(names, id))
			}
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid, nil
}

// ExportCSV writes one row per shift × post with the assigned volunteer names
func (s *PlanningService) ExportCSV(ctx context.Context, org model.Org, eventID string, w io.Writer) error {
	grid, err := s.Grid(ctx, org, eventID)
	if err != nil {
		return err
	}

	rows := make([]*planningCSVRow, 0, len(grid.Rows)*len(grid.Posts))
	for _, row := range grid.Rows {
		for _, post := range grid.Posts {
			names := row.Posts[post]
			rows = append(rows, &planningCSVRow{
				Shift:      row.Shift,
				Post:       post.Label(),
				Volunteers: strings.Join(names, "; "),
				Count:      len(names),
			})
		}
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write planning csv: %w", err)
	}
	return nil
}

// rosterNames returns the rostered volunteers in roster order, plus display names
// for them and for anyone assigned without being rostered
func (s *PlanningService) rosterNames(ctx context.Context, org model.Org, p *model.Planning) ([]model.Volunteer, map[string]string, error) {
	records, err := s.volunteers.ListVolunteers(ctx, org, db.VolunteerFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list volunteers: %w", err)
	}

	byID := make(map[string]model.Volunteer, len(records))
	for _, record := range records {
		byID[record.ID] = toModelVolunteer(record, s.logger)
	}

	relevant := map[string]bool{}
	roster := make([]model.Volunteer, 0, len(p.VolunteerIDs))
	for _, id := range p.VolunteerIDs {
		relevant[id] = true
		if v, ok := byID[id]; ok {
			roster = append(roster, v)
		} else {
			s.logger.Warn("Rostered volunteer not found", zap.String("volunteer_id", id))
		}
	}
	for _, posts := range p.Assignments {
		for _, ids := range posts {
			for _, id := range ids {
				relevant[id] = true
			}
		}
	}

	named := make([]model.Volunteer, 0, len(relevant))
	for id := range relevant {
		if v, ok := byID[id]; ok {
			named = append(named, v)
		}
	}

	return roster, model.DisplayNames(named), nil
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

// validateAssignment checks the assignment and returns the shift key zero-padded
// the way the shift grid writes it
func validateAssignment(shiftKey string, postID model.PostID, volunteerID string) (string, error) {
	minutes, err := shiftgrid.ParseTimeOfDay(shiftKey)
	if err != nil {
		return "", &ValidationError{Field: "shift", Message: "must be a time of day formatted HH:MM", Err: err}
	}
	if !postID.IsValid() {
		return "", invalid("post", "unknown post %q", postID)
	}
	if strings.TrimSpace(volunteerID) == "" {
		return "", invalid("volunteerId", "is required")
	}
	return shiftgrid.FormatTimeOfDay(minutes), nil
}

func countAssignments(p *model.Planning) int {
	count := 0
	for _, posts := range p.Assignments {
		for _, ids := range posts {
			count += len(ids)
		}
	}
	return count
}

func planningKey(org model.Org, eventID string) string {
	return "planning:" + org.ID + ":" + eventID
}
