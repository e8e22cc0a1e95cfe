package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/db"
)

// GetPlanning retrieves an event's planning; db.ErrNotFound when none was saved yet
func (d *DB) GetPlanning(ctx context.Context, org model.Org, eventID string) (*db.Planning, error) {
	if err := requireOrg(org); err != nil {
		return nil, err
	}

	var p db.Planning
	err := d.pool.QueryRow(ctx, `
		SELECT org_id, event_id, volunteer_ids, assignments, updated_at
		FROM event_planning
		WHERE org_id = $1 AND event_id = $2
	`, org.ID, eventID).Scan(&p.OrgID, &p.EventID, &p.VolunteerIDs, &p.Assignments, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(fmt.Errorf("failed to query planning: %w", err), "planning", eventID)
	}

	if p.VolunteerIDs == nil {
		p.VolunteerIDs = []string{}
	}
	if p.Assignments == nil {
		p.Assignments = map[string]map[string][]string{}
	}
	return &p, nil
}

// SavePlanning writes the whole planning document, creating it if needed
func (d *DB) SavePlanning(ctx context.Context, org model.Org, planning *db.Planning) error {
	if err := requireOrg(org); err != nil {
		return err
	}

	volunteerIDs := planning.VolunteerIDs
	if volunteerIDs == nil {
		volunteerIDs = []string{}
	}
	assignments := planning.Assignments
	if assignments == nil {
		assignments = map[string]map[string][]string{}
	}

	err := d.pool.QueryRow(ctx, `
		INSERT INTO event_planning (org_id, event_id, volunteer_ids, assignments, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (org_id, event_id) DO UPDATE SET
			volunteer_ids = EXCLUDED.volunteer_ids,
			assignments = EXCLUDED.assignments,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`, org.ID, planning.EventID, volunteerIDs, assignments).Scan(&planning.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save planning: %w", err)
	}

	planning.OrgID = org.ID
	return nil
}
