package db

import (
	"time"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

// Volunteer represents a volunteer record
type Volunteer struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Availability represents a volunteer's declared availability for one date.
// Presence of the record means available.
type Availability struct {
	Date        string    `json:"date"`
	VolunteerID string    `json:"volunteerId"`
	Timestamp   time.Time `json:"timestamp"`
}

// RoleAssignment represents the stored role selections for one date
type RoleAssignment struct {
	Date       string           `json:"date"`
	Selections model.Assignment `json:"selections"`
	Version    int              `json:"version"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// EnabledDates represents the admin-chosen service dates for a month
type EnabledDates struct {
	Month     model.MonthKey
	Dates     []string
	UpdatedAt time.Time
}

// PrayerText represents the text of one universal prayer slot on a date
type PrayerText struct {
	Date      string    `json:"date"`
	Slot      int       `json:"slot"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}
