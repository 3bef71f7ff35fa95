package model

import (
	"fmt"
	"strings"
	"time"
)

// MonthKey identifies a calendar month, formatted as yyyy-MM
type MonthKey struct {
	Year  int
	Month time.Month
}

// NewMonthKey validates and builds a MonthKey
func NewMonthKey(year int, month int) (MonthKey, error) {
	if month < 1 || month > 12 {
		return MonthKey{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1 || year > 9999 {
		return MonthKey{}, fmt.Errorf("year out of range: %d", year)
	}
	return MonthKey{Year: year, Month: time.Month(month)}, nil
}

// ParseMonthKey parses a yyyy-MM string
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month %q (expected yyyy-MM): %w", s, err)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// MonthKeyOf returns the month a date belongs to
func MonthKeyOf(date time.Time) MonthKey {
	return MonthKey{Year: date.Year(), Month: date.Month()}
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Start returns the first day of the month at midnight UTC
func (k MonthKey) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the month at midnight UTC
func (k MonthKey) End() time.Time {
	return k.Start().AddDate(0, 1, -1)
}

// Contains reports whether the ISO date string falls within the month
func (k MonthKey) Contains(date string) bool {
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	return d.Year() == k.Year && d.Month() == k.Month
}

// Add returns the month delta months away
func (k MonthKey) Add(delta int) MonthKey {
	return MonthKeyOf(k.Start().AddDate(0, delta, 0))
}
