package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

// GetMonthOpen reports whether volunteers may declare availability for the month
func (d *DB) GetMonthOpen(ctx context.Context, month model.MonthKey) (bool, error) {
	var open bool
	err := d.pool.QueryRow(ctx, `
		SELECT is_open FROM month_open_status WHERE month_key = $1
	`, month.String()).Scan(&open)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, db.NewIOError("get month status", err)
	}
	return open, nil
}

// SetMonthOpen opens or closes a month
func (d *DB) SetMonthOpen(ctx context.Context, month model.MonthKey, open bool) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO month_open_status (month_key, year, month, is_open, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (month_key) DO UPDATE
		SET is_open = EXCLUDED.is_open, updated_at = EXCLUDED.updated_at
	`, month.String(), month.Year, int(month.Month), open)
	return db.NewIOError("set month status", err)
}

// GetEnabledDates retrieves the enabled dates record, or nil when none is stored
func (d *DB) GetEnabledDates(ctx context.Context, month model.MonthKey) (*db.EnabledDates, error) {
	rec := db.EnabledDates{Month: month}
	err := d.pool.QueryRow(ctx, `
		SELECT dates, updated_at FROM enabled_dates WHERE month_key = $1
	`, month.String()).Scan(&rec.Dates, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.NewIOError("get enabled dates", err)
	}
	if rec.Dates == nil {
		rec.Dates = []string{}
	}
	return &rec, nil
}

// SetEnabledDates replaces the enabled dates of a month
func (d *DB) SetEnabledDates(ctx context.Context, month model.MonthKey, dates []string) error {
	if dates == nil {
		dates = []string{}
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO enabled_dates (month_key, year, month, dates, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (month_key) DO UPDATE
		SET dates = EXCLUDED.dates, updated_at = EXCLUDED.updated_at
	`, month.String(), month.Year, int(month.Month), dates)
	return db.NewIOError("set enabled dates", err)
}

// GetAnnouncement retrieves the month's announcement text
func (d *DB) GetAnnouncement(ctx context.Context, month model.MonthKey) (string, error) {
	var content string
	err := d.pool.QueryRow(ctx, `
		SELECT content FROM announcement WHERE month_key = $1
	`, month.String()).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", db.NewIOError("get announcement", err)
	}
	return content, nil
}

// SetAnnouncement replaces the month's announcement text
func (d *DB) SetAnnouncement(ctx context.Context, month model.MonthKey, content string) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO announcement (month_key, year, month, content, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (month_key) DO UPDATE
		SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
	`, month.String(), month.Year, int(month.Month), content)
	return db.NewIOError("set announcement", err)
}

// ListPrayerTexts retrieves the prayer texts stored for a date, ordered by slot
func (d *DB) ListPrayerTexts(ctx context.Context, date string) ([]db.PrayerText, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT date, slot, content, updated_at
		FROM prayer_text
		WHERE date = $1
		ORDER BY slot
	`, date)
	if err != nil {
		return nil, db.NewIOError("query prayer texts", err)
	}
	defer rows.Close()

	texts := make([]db.PrayerText, 0, 4)
	for rows.Next() {
		var p db.PrayerText
		var day time.Time
		if err := rows.Scan(&day, &p.Slot, &p.Content, &p.UpdatedAt); err != nil {
			return nil, db.NewIOError("scan prayer text", err)
		}
		p.Date = day.Format(model.DateLayout)
		texts = append(texts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, db.NewIOError("iterate prayer texts", err)
	}

	return texts, nil
}

// SetPrayerText upserts the text of one prayer slot
func (d *DB) SetPrayerText(ctx context.Context, date string, slot int, content string) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO prayer_text (date, slot, content, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (date, slot) DO UPDATE
		SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
	`, date, slot, content)
	return db.NewIOError("set prayer text", err)
}
