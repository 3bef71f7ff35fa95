package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/bethel-serve/internal/config"
	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/core/roles"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

// ScheduleStore defines the database operations needed to build a month schedule
type ScheduleStore interface {
	db.VolunteerStore
	db.AssignmentStore
	db.PublicationStore
}

// ScheduleRow is one service date of the published schedule. Names of removed
// volunteers are omitted.
type ScheduleRow struct {
	Date          string                      `json:"date"`
	Label         string                      `json:"label"`
	Commentary    []string                    `json:"commentary"`
	Readers       []string                    `json:"readers"`
	PrayerReaders []string                    `json:"prayerReaders"`
	Slots         map[model.RoleSlot][]string `json:"slots"`
	Complete      bool                        `json:"complete"`
}

// MonthScheduleResult is the schedule table of a month
type MonthScheduleResult struct {
	Month string        `json:"month"`
	Rows  []ScheduleRow `json:"rows"`
}

var koreanSlotLabels = map[model.RoleSlot]string{
	model.SlotCommentary: "해설",
	model.SlotReading1:   "1독서",
	model.SlotReading2:   "2독서",
	model.SlotPrayer1:    "보편1",
	model.SlotPrayer2:    "보편2",
	model.SlotPrayer3:    "보편3",
	model.SlotPrayer4:    "보편4",
}

// SlotLabel returns the display name of a slot in the locale
func SlotLabel(slot model.RoleSlot, locale string) string {
	if locale == "ko" {
		if label, ok := koreanSlotLabels[slot]; ok {
			return label
		}
	}
	return slot.Label()
}

// MonthSchedule builds the schedule table: one row per service date with the
// names assigned to each role
func MonthSchedule(ctx context.Context, store ScheduleStore, cfg *config.Config, logger *zap.Logger, month model.MonthKey) (*MonthScheduleResult, error) {
	enabled, err := EnabledDatesFor(ctx, store, cfg, month)
	if err != nil {
		return nil, err
	}

	names, err := volunteerNames(ctx, store)
	if err != nil {
		return nil, err
	}

	rows := make([]ScheduleRow, len(enabled.Days))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, day := range enabled.Days {
		g.Go(func() error {
			loaded, err := LoadAssignment(gctx, store, logger, day.DateString)
			if err != nil {
				return err
			}
			rows[i] = buildScheduleRow(day.DateString, day.Display, loaded.Assignment, names)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Built month schedule", zap.String("month", month.String()), zap.Int("rows", len(rows)))
	return &MonthScheduleResult{Month: month.String(), Rows: rows}, nil
}

func buildScheduleRow(date, label string, a model.Assignment, names map[string]string) ScheduleRow {
	row := ScheduleRow{
		Date:          date,
		Label:         label,
		Commentary:    resolveNames(a.Commentary, names),
		Readers:       resolveNames(slices.Concat(a.Reading1, a.Reading2), names),
		PrayerReaders: resolveNames(slices.Concat(a.Prayer1, a.Prayer2, a.Prayer3, a.Prayer4), names),
		Slots:         make(map[model.RoleSlot][]string, len(model.AllSlots)),
		Complete:      roles.ValidateForSave(a) == nil,
	}
	for _, slot := range model.AllSlots {
		row.Slots[slot] = resolveNames(a.Get(slot), names)
	}
	return row
}

// resolveNames maps ids to names in order, dropping duplicates and unknown ids
func resolveNames(ids []string, names map[string]string) []string {
	seen := make(map[string]bool, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, name)
	}
	return result
}

func volunteerNames(ctx context.Context, store db.VolunteerStore) (map[string]string, error) {
	volunteers, err := store.ListVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	names := make(map[string]string, len(volunteers))
	for _, v := range volunteers {
		names[v.ID] = v.Name
	}
	return names, nil
}

// ScheduleSummary renders the copyable text block announcing a date's roles,
// one "- <role>: <names>" line per slot. Unknown ids render as empty names.
func ScheduleSummary(a model.Assignment, names map[string]string, locale string) string {
	lines := make([]string, 0, len(model.AllSlots))
	for _, slot := range model.AllSlots {
		ids := a.Get(slot)
		if slot != model.SlotCommentary && len(ids) > 1 {
			ids = ids[:1]
		}
		resolved := make([]string, len(ids))
		for i, id := range ids {
			resolved[i] = names[id]
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", SlotLabel(slot, locale), strings.Join(resolved, ", ")))
	}
	return strings.Join(lines, "\n")
}

// DateSummary loads a date's assignment and renders its ScheduleSummary
func DateSummary(ctx context.Context, store ScheduleStore, cfg *config.Config, logger *zap.Logger, date string) (string, error) {
	loaded, err := LoadAssignment(ctx, store, logger, date)
	if err != nil {
		return "", err
	}
	names, err := volunteerNames(ctx, store)
	if err != nil {
		return "", err
	}
	return ScheduleSummary(loaded.Assignment, names, cfg.Calendar.Locale), nil
}
