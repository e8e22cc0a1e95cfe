package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/db"
)

const workflowColumns = `org_id, event_id, active_phase, active_step, manual, overrides, posts, shotgun_url, updated_at`

// GetWorkflow retrieves an event's workflow; db.ErrNotFound when none was saved yet
func (d *DB) GetWorkflow(ctx context.Context, org model.Org, eventID string) (*db.Workflow, error) {
	if err := requireOrg(org); err != nil {
		return nil, err
	}

	row := d.pool.QueryRow(ctx, `
		SELECT `+workflowColumns+`
		FROM com_workflow
		WHERE org_id = $1 AND event_id = $2
	`, org.ID, eventID)

	w, err := scanWorkflow(row)
	if err != nil {
		return nil, notFound(err, "workflow", eventID)
	}
	return w, nil
}

// UpdateWorkflow creates the workflow row if needed, then merges patch into it under a row lock
func (d *DB) UpdateWorkflow(ctx context.Context, org model.Org, eventID string, patch db.WorkflowPatch) (*db.Workflow, error) {
	if err := requireOrg(org); err != nil {
		return nil, err
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin workflow transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO com_workflow (org_id, event_id, active_phase)
		VALUES ($1, $2, $3)
		ON CONFLICT (org_id, event_id) DO NOTHING
	`, org.ID, eventID, string(model.PhasePreparation))
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	current, err := scanWorkflow(tx.QueryRow(ctx, `
		SELECT `+workflowColumns+`
		FROM com_workflow
		WHERE org_id = $1 AND event_id = $2
		FOR UPDATE
	`, org.ID, eventID))
	if err != nil {
		return nil, err
	}

	patch.ApplyTo(current)

	err = tx.QueryRow(ctx, `
		UPDATE com_workflow SET
			active_phase = $3,
			active_step = $4,
			manual = $5,
			overrides = $6,
			posts = $7,
			shotgun_url = $8,
			updated_at = NOW()
		WHERE org_id = $1 AND event_id = $2
		RETURNING updated_at
	`, org.ID, eventID, current.ActivePhase, current.ActiveStep, current.Manual, current.Overrides,
		current.Posts, current.ShotgunURL).Scan(&current.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit workflow update: %w", err)
	}

	return current, nil
}

func scanWorkflow(row pgx.Row) (*db.Workflow, error) {
	var w db.Workflow
	err := row.Scan(&w.OrgID, &w.EventID, &w.ActivePhase, &w.ActiveStep, &w.Manual, &w.Overrides,
		&w.Posts, &w.ShotgunURL, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan workflow: %w", err)
	}

	if w.Manual == nil {
		w.Manual = map[string]bool{}
	}
	if w.Overrides == nil {
		w.Overrides = map[string]bool{}
	}
	if w.Posts == nil {
		w.Posts = []db.WorkflowPost{}
	}
	return &w, nil
}
