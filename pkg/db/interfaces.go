package db

import (
	"context"
	"time"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

// VolunteerStore defines the interface for volunteer directory operations
type VolunteerStore interface {
	ListVolunteers(ctx context.Context) ([]Volunteer, error)
	// GetVolunteer returns a *NotFoundError when the id is unknown
	GetVolunteer(ctx context.Context, id string) (*Volunteer, error)
	InsertVolunteer(ctx context.Context, volunteer *Volunteer) error
	UpdateVolunteerName(ctx context.Context, id, name string, updatedAt time.Time) error
	DeleteVolunteer(ctx context.Context, id string) error
}

// AvailabilityStore defines the interface for availability operations
type AvailabilityStore interface {
	// SetAvailability upserts the record with a fresh timestamp
	SetAvailability(ctx context.Context, date, volunteerID string, timestamp time.Time) error
	// DeleteAvailability is a no-op when the record does not exist
	DeleteAvailability(ctx context.Context, date, volunteerID string) error
	ListAvailability(ctx context.Context, date string) ([]Availability, error)
	// DeleteAvailabilityForVolunteer removes the volunteer from every date and
	// returns the number of records removed
	DeleteAvailabilityForVolunteer(ctx context.Context, volunteerID string) (int, error)
}

// AssignmentStore defines the interface for role assignment operations
type AssignmentStore interface {
	// GetRoleAssignment returns a *NotFoundError when nothing is stored for the date
	GetRoleAssignment(ctx context.Context, date string) (*RoleAssignment, error)
	// SaveRoleAssignment replaces the whole record and returns the new version.
	// When expectedVersion is non-nil it must equal the stored version (0 when
	// absent) or ErrVersionConflict is returned and nothing is written.
	SaveRoleAssignment(ctx context.Context, date string, selections model.Assignment, expectedVersion *int) (int, error)
	// ListRoleAssignments returns the records with from <= date <= to, ordered by date
	ListRoleAssignments(ctx context.Context, from, to string) ([]RoleAssignment, error)
}

// PublicationStore defines the interface for month-level published state
type PublicationStore interface {
	// GetMonthOpen defaults to false when no status has been set
	GetMonthOpen(ctx context.Context, month model.MonthKey) (bool, error)
	SetMonthOpen(ctx context.Context, month model.MonthKey, open bool) error
	// GetEnabledDates returns nil without error when no record exists for the month,
	// which is distinct from a stored empty list
	GetEnabledDates(ctx context.Context, month model.MonthKey) (*EnabledDates, error)
	SetEnabledDates(ctx context.Context, month model.MonthKey, dates []string) error
	// GetAnnouncement defaults to "" when nothing has been set
	GetAnnouncement(ctx context.Context, month model.MonthKey) (string, error)
	SetAnnouncement(ctx context.Context, month model.MonthKey, content string) error
	ListPrayerTexts(ctx context.Context, date string) ([]PrayerText, error)
	SetPrayerText(ctx context.Context, date string, slot int, content string) error
}

// Database defines the interface for all database operations.
// Both postgres.DB and memstore.Store implement this interface.
type Database interface {
	VolunteerStore
	AvailabilityStore
	AssignmentStore
	PublicationStore
	Close()
}
