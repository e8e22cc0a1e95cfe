package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/db"
)

const volunteerColumns = `id, org_id, name, kind, favorite, phone, email, notes, created_at`

// ListVolunteers retrieves the organisation's volunteers, favourites first then by name
func (d *DB) ListVolunteers(ctx context.Context, org model.Org, filter db.VolunteerFilter) ([]db.Volunteer, error) {
	if err := requireOrg(org); err != nil {
		return nil, err
	}

	rows, err := d.pool.Query(ctx, `
		SELECT `+volunteerColumns+`
		FROM volunteer
		WHERE org_id = $1
		  AND ($2 = '' OR kind = $2)
		  AND (NOT $3 OR favorite)
		ORDER BY favorite DESC, lower(name), id
	`, org.ID, filter.Kind, filter.FavoritesOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []db.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating volunteers: %w", err)
	}

	return volunteers, nil
}

// GetVolunteer retrieves a single volunteer
func (d *DB) GetVolunteer(ctx context.Context, org model.Org, id string) (*db.Volunteer, error) {
	if err := requireOrg(org); err != nil {
		return nil, err
	}

	row := d.pool.QueryRow(ctx, `
		SELECT `+volunteerColumns+`
		FROM volunteer
		WHERE org_id = $1 AND id = $2
	`, org.ID, id)

	v, err := scanVolunteer(row)
	if err != nil {
		return nil, notFound(err, "volunteer", id)
	}
	return v, nil
}

// InsertVolunteer inserts a new volunteer record
func (d *DB) InsertVolunteer(ctx context.Context, org model.Org, volunteer *db.Volunteer) error {
	if err := requireOrg(org); err != nil {
		return err
	}

	err := d.pool.QueryRow(ctx, `
		INSERT INTO volunteer (id, org_id, name, kind, favorite, phone, email, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, volunteer.ID, org.ID, volunteer.Name, volunteer.Kind, volunteer.Favorite,
		volunteer.Phone, volunteer.Email, volunteer.Notes).Scan(&volunteer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert volunteer: %w", err)
	}

	volunteer.OrgID = org.ID
	return nil
}

// UpdateVolunteer applies the non-nil fields of patch and returns the updated record
func (d *DB) UpdateVolunteer(ctx context.Context, org model.Org, id string, patch db.VolunteerPatch) (*db.Volunteer, error) {
	if err := requireOrg(org); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return d.GetVolunteer(ctx, org, id)
	}

	row := d.pool.QueryRow(ctx, `
		UPDATE volunteer SET
			name = COALESCE($3, name),
			kind = COALESCE($4, kind),
			favorite = COALESCE($5, favorite),
			phone = COALESCE($6, phone),
			email = COALESCE($7, email),
			notes = COALESCE($8, notes)
		WHERE org_id = $1 AND id = $2
		RETURNING `+volunteerColumns+`
	`, org.ID, id, patch.Name, patch.Kind, patch.Favorite, patch.Phone, patch.Email, patch.Notes)

	v, err := scanVolunteer(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update volunteer: %w", notFound(err, "volunteer", id))
	}
	return v, nil
}

func scanVolunteer(row pgx.Row) (*db.Volunteer, error) {
	var v db.Volunteer
	if err := row.Scan(&v.ID, &v.OrgID, &v.Name, &v.Kind, &v.Favorite, &v.Phone, &v.Email, &v.Notes, &v.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan volunteer: %w", err)
	}
	return &v, nil
}
