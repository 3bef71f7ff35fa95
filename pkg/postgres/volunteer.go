package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/bethel-serve/pkg/db"
)

// ListVolunteers retrieves all volunteer records in creation order
func (d *DB) ListVolunteers(ctx context.Context) ([]db.Volunteer, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM volunteer
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, db.NewIOError("query volunteers", err)
	}
	defer rows.Close()

	volunteers := make([]db.Volunteer, 0)
	for rows.Next() {
		var v db.Volunteer
		if err := rows.Scan(&v.ID, &v.Name, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, db.NewIOError("scan volunteer", err)
		}
		volunteers = append(volunteers, v)
	}

	if err := rows.Err(); err != nil {
		return nil, db.NewIOError("iterate volunteers", err)
	}

	return volunteers, nil
}

// GetVolunteer retrieves a single volunteer by id
func (d *DB) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	var v db.Volunteer
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at FROM volunteer WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &db.NotFoundError{Entity: "volunteer", Key: id}
	}
	if err != nil {
		return nil, db.NewIOError("get volunteer", err)
	}
	return &v, nil
}

// InsertVolunteer inserts a new volunteer record
func (d *DB) InsertVolunteer(ctx context.Context, volunteer *db.Volunteer) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO volunteer (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, volunteer.ID, volunteer.Name, volunteer.CreatedAt.UTC(), volunteer.UpdatedAt)
	return db.NewIOError("insert volunteer", err)
}

// UpdateVolunteerName renames a volunteer
func (d *DB) UpdateVolunteerName(ctx context.Context, id, name string, updatedAt time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE volunteer SET name = $2, updated_at = $3 WHERE id = $1
	`, id, name, updatedAt.UTC())
	if err != nil {
		return db.NewIOError("update volunteer", err)
	}
	if tag.RowsAffected() == 0 {
		return &db.NotFoundError{Entity: "volunteer", Key: id}
	}
	return nil
}

// DeleteVolunteer removes a volunteer record. Availability and assignments are
// left to the caller.
func (d *DB) DeleteVolunteer(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM volunteer WHERE id = $1`, id)
	if err != nil {
		return db.NewIOError("delete volunteer", err)
	}
	if tag.RowsAffected() == 0 {
		return &db.NotFoundError{Entity: "volunteer", Key: id}
	}
	return nil
}
