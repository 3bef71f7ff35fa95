package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

// GetRoleAssignment retrieves the stored assignment for a date
func (d *DB) GetRoleAssignment(ctx context.Context, date string) (*db.RoleAssignment, error) {
	rec, err := scanAssignment(d.pool.QueryRow(ctx, `
		SELECT date, selections, version, updated_at
		FROM role_assignment
		WHERE date = $1
	`, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &db.NotFoundError{Entity: "role assignment", Key: date}
	}
	if err != nil {
		return nil, db.NewIOError("get role assignment", err)
	}
	return rec, nil
}

// SaveRoleAssignment writes the whole record in a single statement.
// A nil expectedVersion overwrites unconditionally; otherwise the write only
// happens when the stored version still matches.
func (d *DB) SaveRoleAssignment(ctx context.Context, date string, selections model.Assignment, expectedVersion *int) (int, error) {
	data, err := json.Marshal(selections)
	if err != nil {
		return 0, fmt.Errorf("failed to encode selections: %w", err)
	}

	var row pgx.Row
	switch {
	case expectedVersion == nil:
		row = d.pool.QueryRow(ctx, `
			INSERT INTO role_assignment (date, selections, version, updated_at)
			VALUES ($1, $2, 1, NOW())
			ON CONFLICT (date) DO UPDATE
			SET selections = EXCLUDED.selections,
			    version = role_assignment.version + 1,
			    updated_at = EXCLUDED.updated_at
			RETURNING version
		`, date, data)
	case *expectedVersion == 0:
		row = d.pool.QueryRow(ctx, `
			INSERT INTO role_assignment (date, selections, version, updated_at)
			VALUES ($1, $2, 1, NOW())
			ON CONFLICT (date) DO NOTHING
			RETURNING version
		`, date, data)
	default:
		row = d.pool.QueryRow(ctx, `
			UPDATE role_assignment
			SET selections = $2, version = version + 1, updated_at = NOW()
			WHERE date = $1 AND version = $3
			RETURNING version
		`, date, data, *expectedVersion)
	}

	var version int
	err = row.Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, db.ErrVersionConflict
	}
	if err != nil {
		return 0, db.NewIOError("save role assignment", err)
	}
	return version, nil
}

// ListRoleAssignments retrieves assignments dated between from and to inclusive
func (d *DB) ListRoleAssignments(ctx context.Context, from, to string) ([]db.RoleAssignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT date, selections, version, updated_at
		FROM role_assignment
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`, from, to)
	if err != nil {
		return nil, db.NewIOError("query role assignments", err)
	}
	defer rows.Close()

	records := make([]db.RoleAssignment, 0)
	for rows.Next() {
		rec, err := scanAssignment(rows)
		if err != nil {
			return nil, db.NewIOError("scan role assignment", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, db.NewIOError("iterate role assignments", err)
	}

	return records, nil
}

func scanAssignment(row pgx.Row) (*db.RoleAssignment, error) {
	var rec db.RoleAssignment
	var day time.Time
	var data []byte
	if err := row.Scan(&day, &data, &rec.Version, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &rec.Selections); err != nil {
		return nil, fmt.Errorf("invalid selections stored for %s: %w", day.Format(model.DateLayout), err)
	}
	rec.Date = day.Format(model.DateLayout)
	return &rec, nil
}
