package postgres

import (
	"context"
	"time"

	"github.com/jakechorley/bethel-serve/pkg/db"
)

// SetAvailability upserts an availability record, refreshing its timestamp
func (d *DB) SetAvailability(ctx context.Context, date, volunteerID string, timestamp time.Time) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO availability (date, volunteer_id, timestamp)
		VALUES ($1, $2, $3)
		ON CONFLICT (date, volunteer_id) DO UPDATE SET timestamp = EXCLUDED.timestamp
	`, date, volunteerID, timestamp.UTC())
	return db.NewIOError("set availability", err)
}

// DeleteAvailability removes an availability record if present
func (d *DB) DeleteAvailability(ctx context.Context, date, volunteerID string) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM availability WHERE date = $1 AND volunteer_id = $2
	`, date, volunteerID)
	return db.NewIOError("delete availability", err)
}

// ListAvailability retrieves every availability record for a date
func (d *DB) ListAvailability(ctx context.Context, date string) ([]db.Availability, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT date, volunteer_id, timestamp
		FROM availability
		WHERE date = $1
	`, date)
	if err != nil {
		return nil, db.NewIOError("query availability", err)
	}
	defer rows.Close()

	records := make([]db.Availability, 0)
	for rows.Next() {
		var a db.Availability
		var day time.Time
		if err := rows.Scan(&day, &a.VolunteerID, &a.Timestamp); err != nil {
			return nil, db.NewIOError("scan availability", err)
		}
		a.Date = day.Format("2006-01-02")
		records = append(records, a)
	}

	if err := rows.Err(); err != nil {
		return nil, db.NewIOError("iterate availability", err)
	}

	return records, nil
}

// DeleteAvailabilityForVolunteer removes the volunteer's availability on every date
func (d *DB) DeleteAvailabilityForVolunteer(ctx context.Context, volunteerID string) (int, error) {
	tag, err := d.pool.Exec(ctx, `DELETE FROM availability WHERE volunteer_id = $1`, volunteerID)
	if err != nil {
		return 0, db.NewIOError("delete volunteer availability", err)
	}
	return int(tag.RowsAffected()), nil
}
