package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/bethel-serve/internal/config"
	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

const maxConcurrentLookups = 8

// AvailableVolunteersStore defines the database operations needed to resolve
// who is available on a date
type AvailableVolunteersStore interface {
	db.VolunteerStore
	db.AvailabilityStore
}

// DeclareAvailabilityStore defines the database operations needed for a
// volunteer to declare availability
type DeclareAvailabilityStore interface {
	db.VolunteerStore
	db.AvailabilityStore
	db.PublicationStore
}

// MonthApplicationsStore defines the database operations needed for the
// application status view
type MonthApplicationsStore interface {
	db.VolunteerStore
	db.AvailabilityStore
	db.PublicationStore
}

// DateApplications lists who applied for one service date
type DateApplications struct {
	Date       string         `json:"date"`
	Label      string         `json:"label"`
	Volunteers []db.Volunteer `json:"volunteers"`
}

// MonthApplications is the application status of every service date in a month
type MonthApplications struct {
	Month     string             `json:"month"`
	IsOpen    bool               `json:"isOpen"`
	IsDefault bool               `json:"isDefault"`
	Dates     []DateApplications `json:"dates"`
}

// SetAvailability records (available=true) or clears the volunteer's availability
// for a date. Both directions are idempotent and no month or date gate applies.
func SetAvailability(ctx context.Context, store db.AvailabilityStore, logger *zap.Logger, volunteerID, date string, available bool) error {
	if volunteerID == "" {
		return argumentError("volunteerId", errors.New("must not be empty"))
	}
	if _, err := model.ParseDate(date); err != nil {
		return argumentError("date", err)
	}

	if available {
		if err := store.SetAvailability(ctx, date, volunteerID, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to set availability: %w", err)
		}
	} else {
		if err := store.DeleteAvailability(ctx, date, volunteerID); err != nil {
			return fmt.Errorf("failed to clear availability: %w", err)
		}
	}

	logger.Debug("Availability updated",
		zap.String("volunteer_id", volunteerID),
		zap.String("date", date),
		zap.Bool("available", available))
	return nil
}

// DeclareAvailability is the volunteer-facing SetAvailability: the volunteer must
// exist, the month must be open and the date must be one of its service dates.
func DeclareAvailability(ctx context.Context, store DeclareAvailabilityStore, cfg *config.Config, logger *zap.Logger, volunteerID, date string, available bool) error {
	day, err := model.ParseDate(date)
	if err != nil {
		return argumentError("date", err)
	}
	month := model.MonthKeyOf(day)

	if _, err := store.GetVolunteer(ctx, volunteerID); err != nil {
		return fmt.Errorf("failed to get volunteer: %w", err)
	}

	open, err := store.GetMonthOpen(ctx, month)
	if err != nil {
		return fmt.Errorf("failed to get month status: %w", err)
	}
	if !open {
		return fmt.Errorf("%w: %s", ErrMonthClosed, month)
	}

	enabled, err := EnabledDatesFor(ctx, store, cfg, month)
	if err != nil {
		return err
	}
	if !enabled.Contains(date) {
		return fmt.Errorf("%w: %s", ErrDateNotEnabled, date)
	}

	return SetAvailability(ctx, store, logger, volunteerID, date, available)
}

// GetAvailableVolunteers returns the volunteers with an availability record on the
// date. Records for volunteers that no longer exist are skipped. Order is unspecified.
func GetAvailableVolunteers(ctx context.Context, store AvailableVolunteersStore, logger *zap.Logger, date string) ([]db.Volunteer, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, argumentError("date", err)
	}

	records, err := store.ListAvailability(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}

	found := make([]*db.Volunteer, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, rec := range records {
		g.Go(func() error {
			v, err := store.GetVolunteer(gctx, rec.VolunteerID)
			if errors.Is(err, db.ErrNotFound) {
				logger.Debug("Skipping availability of removed volunteer",
					zap.String("volunteer_id", rec.VolunteerID), zap.String("date", date))
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get volunteer %s: %w", rec.VolunteerID, err)
			}
			found[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	volunteers := make([]db.Volunteer, 0, len(found))
	for _, v := range found {
		if v != nil {
			volunteers = append(volunteers, *v)
		}
	}
	return volunteers, nil
}

// GetMonthApplications lists, for each service date of the month, the available
// volunteers sorted by name
func GetMonthApplications(ctx context.Context, store MonthApplicationsStore, cfg *config.Config, logger *zap.Logger, month model.MonthKey) (*MonthApplications, error) {
	status, err := GetMonthStatus(ctx, store, cfg, month)
	if err != nil {
		return nil, err
	}

	volunteers, err := store.ListVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	byID := make(map[string]db.Volunteer, len(volunteers))
	for _, v := range volunteers {
		byID[v.ID] = v
	}

	result := &MonthApplications{
		Month:     month.String(),
		IsOpen:    status.IsOpen,
		IsDefault: status.IsDefault,
		Dates:     make([]DateApplications, len(status.EnabledDates)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, day := range status.EnabledDates {
		g.Go(func() error {
			records, err := store.ListAvailability(gctx, day.DateString)
			if err != nil {
				return fmt.Errorf("failed to list availability for %s: %w", day.DateString, err)
			}

			available := make([]db.Volunteer, 0, len(records))
			for _, rec := range records {
				if v, ok := byID[rec.VolunteerID]; ok {
					available = append(available, v)
				}
			}
			SortVolunteersByName(available, cfg.Calendar.Locale)

			result.Dates[i] = DateApplications{Date: day.DateString, Label: day.Display, Volunteers: available}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Month applications loaded",
		zap.String("month", month.String()),
		zap.Int("dates", len(result.Dates)))
	return result, nil
}
