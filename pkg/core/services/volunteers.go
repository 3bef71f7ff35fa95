package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jakechorley/bethel-serve/pkg/db"
)

// RemoveVolunteerStore defines the database operations needed to remove a volunteer
type RemoveVolunteerStore interface {
	DeleteVolunteer(ctx context.Context, id string) error
	DeleteAvailabilityForVolunteer(ctx context.Context, volunteerID string) (int, error)
}

// RemoveVolunteerResult reports what a removal deleted
type RemoveVolunteerResult struct {
	VolunteerID         string `json:"volunteerId"`
	AvailabilityRemoved int    `json:"availabilityRemoved"`
}

// AddVolunteer creates a volunteer with a trimmed, non-empty name.
// The duplicate-name check is best effort: it reads the directory first and
// two concurrent adds can still both succeed.
func AddVolunteer(ctx context.Context, store db.VolunteerStore, logger *zap.Logger, name string) (*db.Volunteer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	existing, err := store.ListVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	if err := CheckNameAvailable(existing, name, ""); err != nil {
		return nil, err
	}

	volunteer := &db.Volunteer{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := store.InsertVolunteer(ctx, volunteer); err != nil {
		return nil, fmt.Errorf("failed to insert volunteer: %w", err)
	}

	logger.Info("Volunteer added", zap.String("volunteer_id", volunteer.ID), zap.String("name", name))
	return volunteer, nil
}

// RenameVolunteer changes a volunteer's name
func RenameVolunteer(ctx context.Context, store db.VolunteerStore, logger *zap.Logger, id, newName string) (*db.Volunteer, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrEmptyName
	}

	existing, err := store.ListVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	if err := CheckNameAvailable(existing, newName, id); err != nil {
		return nil, err
	}

	if err := store.UpdateVolunteerName(ctx, id, newName, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to rename volunteer: %w", err)
	}

	volunteer, err := store.GetVolunteer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload volunteer: %w", err)
	}

	logger.Info("Volunteer renamed", zap.String("volunteer_id", id), zap.String("name", newName))
	return volunteer, nil
}

// RemoveVolunteer deletes the volunteer and then their availability on every date.
// Role assignments that reference the volunteer are left untouched.
func RemoveVolunteer(ctx context.Context, store RemoveVolunteerStore, logger *zap.Logger, id string) (*RemoveVolunteerResult, error) {
	if err := store.DeleteVolunteer(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete volunteer: %w", err)
	}

	removed, err := store.DeleteAvailabilityForVolunteer(ctx, id)
	if err != nil {
		// the volunteer is already gone; the orphaned records are skipped on read
		logger.Warn("Failed to remove availability of deleted volunteer",
			zap.String("volunteer_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to delete availability for volunteer %s: %w", id, err)
	}

	logger.Info("Volunteer removed",
		zap.String("volunteer_id", id),
		zap.Int("availability_removed", removed))

	return &RemoveVolunteerResult{VolunteerID: id, AvailabilityRemoved: removed}, nil
}

// ListVolunteers returns every volunteer sorted by name for the locale
func ListVolunteers(ctx context.Context, store db.VolunteerStore, logger *zap.Logger, locale string) ([]db.Volunteer, error) {
	volunteers, err := store.ListVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}

	SortVolunteersByName(volunteers, locale)
	logger.Debug("Listed volunteers", zap.Int("count", len(volunteers)))
	return volunteers, nil
}

// FindVolunteerIDByName returns the id of the volunteer whose name exactly matches
// the trimmed input
func FindVolunteerIDByName(ctx context.Context, store db.VolunteerStore, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	volunteers, err := store.ListVolunteers(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list volunteers: %w", err)
	}

	for _, v := range volunteers {
		if v.Name == name {
			return v.ID, nil
		}
	}
	return "", &db.NotFoundError{Entity: "volunteer", Key: name}
}

// CheckNameAvailable returns ErrDuplicateName when another volunteer (other than
// exceptID) already uses the trimmed name
func CheckNameAvailable(volunteers []db.Volunteer, name, exceptID string) error {
	name = strings.TrimSpace(name)
	for _, v := range volunteers {
		if v.ID != exceptID && v.Name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	return nil
}

// NameComparer returns a locale-aware string comparison for sorting names
func NameComparer(locale string) func(a, b string) int {
	c := collate.New(language.Make(locale))
	return func(a, b string) int {
		return c.CompareString(a, b)
	}
}

// SortVolunteersByName sorts in place by collated name, then by id
func SortVolunteersByName(volunteers []db.Volunteer, locale string) {
	compare := NameComparer(locale)
	slices.SortStableFunc(volunteers, func(a, b db.Volunteer) int {
		if c := compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
