package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/serialq"
	"github.com/jakechorley/event-planner/pkg/db"
)

// VolunteerInput is the data accepted when creating a volunteer
type VolunteerInput struct {
	Name     string `validate:"required"`
	Kind     string
	Favorite bool
	Phone    string
	Email    string `validate:"omitempty,email"`
	Notes    string
}

// VolunteerUpdate is a partial volunteer update; nil fields are left unchanged
type VolunteerUpdate struct {
	Name     *string
	Kind     *string
	Favorite *bool
	Phone    *string
	Email    *string
	Notes    *string
}

// VolunteerSheetReader reads volunteer rows from a spreadsheet tab
type VolunteerSheetReader interface {
	ListVolunteers(ctx context.Context, spreadsheetID, tab string) ([]sheetsclient.VolunteerRow, error)
}

// ImportResult reports what a volunteer import did
type ImportResult struct {
	Created []model.Volunteer `json:"created"`
	Skipped []string          `json:"skipped"` // names already present
}

// VolunteerService manages an organisation's volunteer directory.
// Updates to one volunteer are applied one at a time.
type VolunteerService struct {
	store  db.VolunteerStore
	queue  *serialq.Queue
	logger *zap.Logger
}

// NewVolunteerService creates a volunteer service
func NewVolunteerService(store db.VolunteerStore, queue *serialq.Queue, logger *zap.Logger) *VolunteerService {
	return &VolunteerService{store: store, queue: queue, logger: logger}
}

// List returns the volunteers, favourites first then by name
func (s *VolunteerService) List(ctx context.Context, org model.Org, filter db.VolunteerFilter) ([]model.Volunteer, error) {
	s.logger.Debug("Listing volunteers", zap.String("org_id", org.ID), zap.Bool("favorites_only", filter.FavoritesOnly))

	records, err := s.store.ListVolunteers(ctx, org, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}

	volunteers := make([]model.Volunteer, 0, len(records))
	for _, record := range records {
		volunteers = append(volunteers, toModelVolunteer(record, s.logger))
	}
	return volunteers, nil
}

// Get returns one volunteer
func (s *VolunteerService) Get(ctx context.Context, org model.Org, id string) (*model.Volunteer, error) {
	record, err := s.store.GetVolunteer(ctx, org, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	volunteer := toModelVolunteer(*record, s.logger)
	return &volunteer, nil
}

// Create validates the input and inserts a new volunteer
func (s *VolunteerService) Create(ctx context.Context, org model.Org, input VolunteerInput) (*model.Volunteer, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	record := &db.Volunteer{
		ID:       uuid.New().String(),
		Name:     input.Name,
		Kind:     string(model.CanonicalKind(input.Kind)),
		Favorite: input.Favorite,
		Phone:    strings.TrimSpace(input.Phone),
		Email:    input.Email,
		Notes:    input.Notes,
	}

	s.logger.Debug("Creating volunteer", zap.String("org_id", org.ID), zap.String("id", record.ID), zap.String("kind", record.Kind))

	if err := s.store.InsertVolunteer(ctx, org, record); err != nil {
		return nil, fmt.Errorf("failed to insert volunteer: %w", err)
	}

	volunteer := toModelVolunteer(*record, s.logger)
	return &volunteer, nil
}

// Update applies a partial update to a volunteer
func (s *VolunteerService) Update(ctx context.Context, org model.Org, id string, update VolunteerUpdate) (*model.Volunteer, error) {
	patch, err := toVolunteerPatch(update)
	if err != nil {
		return nil, err
	}

	var updated *db.Volunteer
	err = s.queue.Do(ctx, volunteerKey(org, id), func() error {
		var err error
		updated, err = s.store.UpdateVolunteer(context.WithoutCancel(ctx), org, id, patch)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update volunteer: %w", err)
	}

	volunteer := toModelVolunteer(*updated, s.logger)
	return &volunteer, nil
}

// ToggleFavorite flips the volunteer's favourite flag
func (s *VolunteerService) ToggleFavorite(ctx context.Context, org model.Org, id string) (*model.Volunteer, error) {
	var updated *db.Volunteer
	err := s.queue.Do(ctx, volunteerKey(org, id), func() error {
		ctx := context.WithoutCancel(ctx)
		current, err := s.store.GetVolunteer(ctx, org, id)
		if err != nil {
			return err
		}
		favorite := !current.Favorite
		updated, err = s.store.UpdateVolunteer(ctx, org, id, db.VolunteerPatch{Favorite: &favorite})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favourite: %w", err)
	}

	volunteer := toModelVolunteer(*updated, s.logger)
	return &volunteer, nil
}

// Import creates a volunteer for every sheet row whose name is not already in the directory.
// Names are compared ignoring case and surrounding spaces.
func (s *VolunteerService) Import(ctx context.Context, org model.Org, reader VolunteerSheetReader, spreadsheetID, tab string) (*ImportResult, error) {
	s.logger.Debug("Importing volunteers", zap.String("spreadsheet_id", spreadsheetID), zap.String("tab", tab))

	rows, err := reader.ListVolunteers(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read volunteer sheet: %w", err)
	}

	existing, err := s.store.ListVolunteers(ctx, org, db.VolunteerFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, v := range existing {
		known[normaliseName(v.Name)] = true
	}

	result := &ImportResult{Created: []model.Volunteer{}, Skipped: []string{}}
	for _, row := range rows {
		key := normaliseName(row.Name)
		if known[key] {
			result.Skipped = append(result.Skipped, row.Name)
			continue
		}

		volunteer, err := s.Create(ctx, org, VolunteerInput{
			Name:  row.Name,
			Kind:  row.Kind,
			Phone: row.Phone,
			Email: row.Email,
			Notes: row.Notes,
		})
		if err != nil {
			return result, fmt.Errorf("failed to import %q: %w", row.Name, err)
		}
		known[key] = true
		result.Created = append(result.Created, *volunteer)
	}

	s.logger.Info("Volunteers imported",
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

func toVolunteerPatch(update VolunteerUpdate) (db.VolunteerPatch, error) {
	patch := db.VolunteerPatch{
		Favorite: update.Favorite,
		Phone:    update.Phone,
		Notes:    update.Notes,
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return patch, invalid("name", "is required")
		}
		patch.Name = &name
	}
	if update.Kind != nil {
		kind := string(model.CanonicalKind(*update.Kind))
		patch.Kind = &kind
	}
	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if err := validate.Var(email, "omitempty,email"); err != nil {
			return patch, &ValidationError{Field: "email", Message: "must be an email address", Err: err}
		}
		patch.Email = &email
	}

	return patch, nil
}

func normaliseName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func volunteerKey(org model.Org, id string) string {
	return "volunteer:" + org.ID + ":" + id
}
