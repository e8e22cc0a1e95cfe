package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/db"
)

const eventColumns = `id, org_id, name, starts_at, end_time, brief, ticketing_ref, created_at`

// ListEvents retrieves the organisation's events ordered by start time
func (d *DB) ListEvents(ctx context.Context, org model.Org, filter db.EventFilter) ([]db.Event, error) {
	if err := requireOrg(org); err != nil {
		return nil, err
	}

	rows, err := d.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM event
		WHERE org_id = $1
		  AND ($2::timestamptz IS NULL OR starts_at >= $2)
		  AND ($3::timestamptz IS NULL OR starts_at < $3)
		ORDER BY starts_at, id
	`, org.ID, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []db.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// GetEvent retrieves a single event
func (d *DB) GetEvent(ctx context.Context, org model.Org, id string) (*db.Event, error) {
	if err := requireOrg(org); err != nil {
		return nil, err
	}

	row := d.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM event
		WHERE org_id = $1 AND id = $2
	`, org.ID, id)

	e, err := scanEvent(row)
	if err != nil {
		return nil, notFound(err, "event", id)
	}
	return e, nil
}

// InsertEvent inserts a new event record
func (d *DB) InsertEvent(ctx context.Context, org model.Org, event *db.Event) error {
	if err := requireOrg(org); err != nil {
		return err
	}

	err := d.pool.QueryRow(ctx, `
		INSERT INTO event (id, org_id, name, starts_at, end_time, brief, ticketing_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, event.ID, org.ID, event.Name, event.StartsAt, event.EndTime, event.Brief, event.TicketingRef).Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	event.OrgID = org.ID
	return nil
}

// UpdateEvent applies the non-nil fields of patch and returns the updated record
func (d *DB) UpdateEvent(ctx context.Context, org model.Org, id string, patch db.EventPatch) (*db.Event, error) {
	if err := requireOrg(org); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return d.GetEvent(ctx, org, id)
	}

	row := d.pool.QueryRow(ctx, `
		UPDATE event SET
			name = COALESCE($3, name),
			starts_at = COALESCE($4, starts_at),
			end_time = COALESCE($5, end_time),
			brief = COALESCE($6, brief),
			ticketing_ref = COALESCE($7, ticketing_ref)
		WHERE org_id = $1 AND id = $2
		RETURNING `+eventColumns+`
	`, org.ID, id, patch.Name, patch.StartsAt, patch.EndTime, patch.Brief, patch.TicketingRef)

	e, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", notFound(err, "event", id))
	}
	return e, nil
}

// DeleteEvent removes an event. Its planning and workflow are kept.
func (d *DB) DeleteEvent(ctx context.Context, org model.Org, id string) error {
	if err := requireOrg(org); err != nil {
		return err
	}

	tag, err := d.pool.Exec(ctx, `DELETE FROM event WHERE org_id = $1 AND id = $2`, org.ID, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", id, db.ErrNotFound)
	}
	return nil
}

func scanEvent(row pgx.Row) (*db.Event, error) {
	var e db.Event
	if err := row.Scan(&e.ID, &e.OrgID, &e.Name, &e.StartsAt, &e.EndTime, &e.Brief, &e.TicketingRef, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return &e, nil
}
