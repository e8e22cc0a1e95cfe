package db

import (
	"context"
	"errors"
	"time"

	"github.com/jakechorley/event-planner/pkg/core/model"
)

// ErrNotFound is returned when a record does not exist for the organisation
var ErrNotFound = errors.New("record not found")

// VolunteerFilter narrows ListVolunteers; zero values match everything
type VolunteerFilter struct {
	Kind          string
	FavoritesOnly bool
}

// EventFilter narrows ListEvents; zero values match everything
type EventFilter struct {
	From *time.Time
	To   *time.Time
}

// VolunteerStore defines the interface for volunteer database operations.
// Volunteers are never deleted.
type VolunteerStore interface {
	ListVolunteers(ctx context.Context, org model.Org, filter VolunteerFilter) ([]Volunteer, error)
	GetVolunteer(ctx context.Context, org model.Org, id string) (*Volunteer, error)
	InsertVolunteer(ctx context.Context, org model.Org, volunteer *Volunteer) error
	UpdateVolunteer(ctx context.Context, org model.Org, id string, patch VolunteerPatch) (*Volunteer, error)
}

// EventStore defines the interface for event database operations
type EventStore interface {
	ListEvents(ctx context.Context, org model.Org, filter EventFilter) ([]Event, error)
	GetEvent(ctx context.Context, org model.Org, id string) (*Event, error)
	InsertEvent(ctx context.Context, org model.Org, event *Event) error
	UpdateEvent(ctx context.Context, org model.Org, id string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, org model.Org, id string) error
}

// PlanningStore defines the interface for event planning database operations
type PlanningStore interface {
	GetPlanning(ctx context.Context, org model.Org, eventID string) (*Planning, error)
	SavePlanning(ctx context.Context, org model.Org, planning *Planning) error
}

// WorkflowStore defines the interface for communication workflow database operations
type WorkflowStore interface {
	GetWorkflow(ctx context.Context, org model.Org, eventID string) (*Workflow, error)
	// UpdateWorkflow creates the workflow if needed, merges the patch and returns the result
	UpdateWorkflow(ctx context.Context, org model.Org, eventID string, patch WorkflowPatch) (*Workflow, error)
}

// Database defines the interface for all database operations
type Database interface {
	VolunteerStore
	EventStore
	PlanningStore
	WorkflowStore
}
