package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/internal/config"
	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/core/roles"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

// SaveAssignmentStore defines the database operations needed to save an assignment
type SaveAssignmentStore interface {
	db.AssignmentStore
	GetMonthOpen(ctx context.Context, month model.MonthKey) (bool, error)
}

// CandidatesStore defines the database operations needed to rank candidates
type CandidatesStore interface {
	db.VolunteerStore
	db.AvailabilityStore
	db.AssignmentStore
}

// AssignmentResult is a date's role assignment with its version
type AssignmentResult struct {
	Date       string           `json:"date"`
	Assignment model.Assignment `json:"assignment"`
	Version    int              `json:"version"`
}

// CandidatesResult lists the volunteers available on a date with their yearly
// tallies, ranked per role category (fewest services first)
type CandidatesResult struct {
	Date       string                                   `json:"date"`
	Year       int                                      `json:"year"`
	Candidates []roles.Candidate                        `json:"candidates"`
	Ranked     map[model.RoleCategory][]roles.Candidate `json:"ranked"`
}

// LoadAssignment returns the stored assignment for a date, or the all-empty
// assignment with version 0 when nothing is stored
func LoadAssignment(ctx context.Context, store db.AssignmentStore, logger *zap.Logger, date string) (*AssignmentResult, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, argumentError("date", err)
	}

	rec, err := store.GetRoleAssignment(ctx, date)
	if errors.Is(err, db.ErrNotFound) {
		logger.Debug("No stored assignment, using empty", zap.String("date", date))
		return &AssignmentResult{Date: date, Assignment: model.Assignment{}.Clone()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role assignment: %w", err)
	}

	return &AssignmentResult{Date: date, Assignment: rec.Selections.Clone(), Version: rec.Version}, nil
}

// SaveAssignment validates and stores the whole assignment for a date.
// Roles can only be assigned once the month is closed. A nil expectedVersion
// overwrites whatever is stored; otherwise a stale version yields
// db.ErrVersionConflict. A rejected save leaves the stored record untouched.
func SaveAssignment(ctx context.Context, store SaveAssignmentStore, logger *zap.Logger, date string, assignment model.Assignment, expectedVersion *int) (*AssignmentResult, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, argumentError("date", err)
	}
	month := model.MonthKeyOf(day)

	open, err := store.GetMonthOpen(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get month status: %w", err)
	}
	if open {
		return nil, fmt.Errorf("%w: %s", ErrMonthOpen, month)
	}

	if err := roles.CheckConstraints(assignment); err != nil {
		return nil, err
	}
	if err := roles.ValidateForSave(assignment); err != nil {
		return nil, err
	}

	version, err := store.SaveRoleAssignment(ctx, date, assignment, expectedVersion)
	if err != nil {
		if errors.Is(err, db.ErrVersionConflict) {
			logger.Info("Rejected stale assignment save", zap.String("date", date))
		}
		return nil, fmt.Errorf("failed to save role assignment: %w", err)
	}

	logger.Info("Role assignment saved",
		zap.String("date", date),
		zap.Int("version", version),
		zap.Strings("volunteers", assignment.VolunteerIDs()))

	return &AssignmentResult{Date: date, Assignment: assignment.Clone(), Version: version}, nil
}

// YearAssignments returns every stored assignment dated within the year
func YearAssignments(ctx context.Context, store db.AssignmentStore, year int) ([]model.DatedAssignment, error) {
	records, err := store.ListRoleAssignments(ctx, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	if err != nil {
		return nil, fmt.Errorf("failed to list role assignments: %w", err)
	}

	dated := make([]model.DatedAssignment, len(records))
	for i, rec := range records {
		dated[i] = model.DatedAssignment{Date: rec.Date, Assignment: rec.Selections}
	}
	return dated, nil
}

// VolunteerTally counts the volunteer's services per category in the year
func VolunteerTally(ctx context.Context, store db.AssignmentStore, logger *zap.Logger, volunteerID string, year int) (model.Tally, error) {
	records, err := YearAssignments(ctx, store, year)
	if err != nil {
		return model.Tally{}, err
	}

	tally := roles.Tally(records, volunteerID, year)
	logger.Debug("Computed tally",
		zap.String("volunteer_id", volunteerID),
		zap.Int("year", year),
		zap.Int("commentary", tally.Commentary),
		zap.Int("reading", tally.Reading),
		zap.Int("prayer", tally.Prayer))
	return tally, nil
}

// YearTallies computes the tally of every volunteer who served in the year
func YearTallies(ctx context.Context, store db.AssignmentStore, year int) (map[string]model.Tally, error) {
	records, err := YearAssignments(ctx, store, year)
	if err != nil {
		return nil, err
	}
	return roles.TallyAll(records, year), nil
}

// AssignmentCandidates returns the volunteers available on the date with their
// tallies for the date's year. The per-category ranking is a hint only.
func AssignmentCandidates(ctx context.Context, store CandidatesStore, cfg *config.Config, logger *zap.Logger, date string) (*CandidatesResult, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, argumentError("date", err)
	}

	available, err := GetAvailableVolunteers(ctx, store, logger, date)
	if err != nil {
		return nil, err
	}

	tallies, err := YearTallies(ctx, store, day.Year())
	if err != nil {
		return nil, err
	}

	SortVolunteersByName(available, cfg.Calendar.Locale)
	candidates := make([]roles.Candidate, len(available))
	for i, v := range available {
		candidates[i] = roles.Candidate{ID: v.ID, Name: v.Name, Tally: tallies[v.ID]}
	}

	compare := NameComparer(cfg.Calendar.Locale)
	ranked := map[model.RoleCategory][]roles.Candidate{
		model.CategoryCommentary: roles.RankCandidates(candidates, model.CategoryCommentary, compare),
		model.CategoryReading:    roles.RankCandidates(candidates, model.CategoryReading, compare),
		model.CategoryPrayer:     roles.RankCandidates(candidates, model.CategoryPrayer, compare),
	}

	return &CandidatesResult{
		Date:       date,
		Year:       day.Year(),
		Candidates: candidates,
		Ranked:     ranked,
	}, nil
}

// TallyStore defines the database operations needed for the tally report
type TallyStore interface {
	db.VolunteerStore
	db.AssignmentStore
}

// VolunteerTallies returns every current volunteer with their tally for the
// year, sorted by name. Volunteers who have not served have a zero tally.
func VolunteerTallies(ctx context.Context, store TallyStore, cfg *config.Config, year int) ([]roles.Candidate, error) {
	volunteers, err := store.ListVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}

	tallies, err := YearTallies(ctx, store, year)
	if err != nil {
		return nil, err
	}

	SortVolunteersByName(volunteers, cfg.Calendar.Locale)
	result := make([]roles.Candidate, len(volunteers))
	for i, v := range volunteers {
		result[i] = roles.Candidate{ID: v.ID, Name: v.Name, Tally: tallies[v.ID]}
	}
	return result, nil
}

// SuggestionResult is a proposed assignment for a date built from the
// available volunteers
type SuggestionResult struct {
	Date    string `json:"date"`
	Version int    `json:"version"`
	roles.Suggestion
}

// SuggestAssignment proposes volunteers for every empty slot of the date's
// stored assignment, preferring those who served least this year. Nothing is saved.
func SuggestAssignment(ctx context.Context, store CandidatesStore, cfg *config.Config, logger *zap.Logger, date string) (*SuggestionResult, error) {
	loaded, err := LoadAssignment(ctx, store, logger, date)
	if err != nil {
		return nil, err
	}

	candidates, err := AssignmentCandidates(ctx, store, cfg, logger, date)
	if err != nil {
		return nil, err
	}

	suggestion := roles.Suggest(loaded.Assignment, candidates.Candidates, roles.DefaultCriteria(), NameComparer(cfg.Calendar.Locale))
	logger.Debug("Suggested assignment",
		zap.String("date", date),
		zap.Int("candidates", len(candidates.Candidates)),
		zap.Int("unfilled", len(suggestion.Unfilled)))

	return &SuggestionResult{Date: date, Version: loaded.Version, Suggestion: suggestion}, nil
}
