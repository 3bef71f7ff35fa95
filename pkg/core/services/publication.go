package services

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/internal/config"
	"github.com/jakechorley/bethel-serve/pkg/core/calendar"
	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/core/prayer"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

// EnabledDatesResult holds the service dates of a month
type EnabledDatesResult struct {
	Month     string         `json:"month"`
	Days      []calendar.Day `json:"days"`
	IsDefault bool           `json:"isDefault"`
}

// Dates returns the ISO date strings of the enabled days
func (r *EnabledDatesResult) Dates() []string {
	dates := make([]string, len(r.Days))
	for i, d := range r.Days {
		dates[i] = d.DateString
	}
	return dates
}

// Contains reports whether date is one of the enabled days
func (r *EnabledDatesResult) Contains(date string) bool {
	return slices.ContainsFunc(r.Days, func(d calendar.Day) bool { return d.DateString == date })
}

// MonthStatus is the public view of a month
type MonthStatus struct {
	Month        string         `json:"month"`
	IsOpen       bool           `json:"isOpen"`
	EnabledDates []calendar.Day `json:"enabledDates"`
	IsDefault    bool           `json:"isDefault"`
}

// Announcement is a month's announcement with its rendered HTML
type Announcement struct {
	Month   string `json:"month"`
	Content string `json:"content"`
	HTML    string `json:"html"`
}

// PrayerSlotText is the stored text of one prayer slot and the volunteers
// assigned to read it
type PrayerSlotText struct {
	Slot    int          `json:"slot"`
	Content string       `json:"content"`
	State   prayer.State `json:"state"`
	Readers []string     `json:"readers,omitempty"`
}

// PrayerStore defines the database operations needed to show a date's prayers
type PrayerStore interface {
	db.VolunteerStore
	db.AssignmentStore
	db.PublicationStore
}

// PrayerTexts holds the four prayer slots of a date
type PrayerTexts struct {
	Date  string           `json:"date"`
	Slots []PrayerSlotText `json:"slots"`
}

var markdown = goldmark.New(goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()))

// EnabledDatesFor resolves a month's service dates. A month with no stored record
// falls back to the configured default service days; a stored empty list means
// no dates.
func EnabledDatesFor(ctx context.Context, store db.PublicationStore, cfg *config.Config, month model.MonthKey) (*EnabledDatesResult, error) {
	cal, err := calendar.New(cfg.Calendar.Locale)
	if err != nil {
		return nil, err
	}

	rec, err := store.GetEnabledDates(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get enabled dates: %w", err)
	}

	result := &EnabledDatesResult{Month: month.String()}
	if rec == nil {
		result.IsDefault = true
		result.Days, err = cal.ServiceDays(month.Year, int(month.Month), cfg.Calendar.ServiceDays)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	result.Days = make([]calendar.Day, 0, len(rec.Dates))
	for _, date := range rec.Dates {
		t, err := model.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("stored enabled date is invalid: %w", err)
		}
		result.Days = append(result.Days, cal.Day(t))
	}
	return result, nil
}

// SetEnabledDates stores the month's service dates. Every date must fall inside
// the month; duplicates are dropped and the result is sorted.
func SetEnabledDates(ctx context.Context, store db.PublicationStore, logger *zap.Logger, month model.MonthKey, dates []string) ([]string, error) {
	normalized := make([]string, 0, len(dates))
	for _, raw := range dates {
		date := strings.TrimSpace(raw)
		if _, err := model.ParseDate(date); err != nil {
			return nil, argumentError("date", err)
		}
		if !month.Contains(date) {
			return nil, argumentError("date", fmt.Errorf("%s is not in %s", date, month))
		}
		normalized = append(normalized, date)
	}
	slices.Sort(normalized)
	normalized = slices.Compact(normalized)

	if err := store.SetEnabledDates(ctx, month, normalized); err != nil {
		return nil, fmt.Errorf("failed to set enabled dates: %w", err)
	}

	logger.Info("Enabled dates updated", zap.String("month", month.String()), zap.Strings("dates", normalized))
	return normalized, nil
}

// GetMonthStatus returns whether the month is open together with its service dates
func GetMonthStatus(ctx context.Context, store db.PublicationStore, cfg *config.Config, month model.MonthKey) (*MonthStatus, error) {
	open, err := store.GetMonthOpen(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get month status: %w", err)
	}

	enabled, err := EnabledDatesFor(ctx, store, cfg, month)
	if err != nil {
		return nil, err
	}

	return &MonthStatus{
		Month:        month.String(),
		IsOpen:       open,
		EnabledDates: enabled.Days,
		IsDefault:    enabled.IsDefault,
	}, nil
}

// SetMonthOpen opens or closes a month for availability declarations
func SetMonthOpen(ctx context.Context, store db.PublicationStore, logger *zap.Logger, month model.MonthKey, open bool) error {
	if err := store.SetMonthOpen(ctx, month, open); err != nil {
		return fmt.Errorf("failed to set month status: %w", err)
	}
	logger.Info("Month status updated", zap.String("month", month.String()), zap.Bool("open", open))
	return nil
}

// GetAnnouncement returns the month's announcement rendered from markdown.
// Raw HTML in the text is not passed through.
func GetAnnouncement(ctx context.Context, store db.PublicationStore, month model.MonthKey) (*Announcement, error) {
	content, err := store.GetAnnouncement(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}

	html, err := RenderMarkdown(content)
	if err != nil {
		return nil, err
	}

	return &Announcement{Month: month.String(), Content: content, HTML: html}, nil
}

// SetAnnouncement replaces the month's announcement text
func SetAnnouncement(ctx context.Context, store db.PublicationStore, logger *zap.Logger, month model.MonthKey, content string) error {
	if err := store.SetAnnouncement(ctx, month, content); err != nil {
		return fmt.Errorf("failed to set announcement: %w", err)
	}
	logger.Info("Announcement updated", zap.String("month", month.String()), zap.Int("length", len(content)))
	return nil
}

// RenderMarkdown converts announcement text to HTML
func RenderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// GetPrayerTexts returns all four prayer slots for a date with the names of
// their assigned readers. Unset slots are empty; removed volunteers are omitted.
func GetPrayerTexts(ctx context.Context, store PrayerStore, logger *zap.Logger, date string) (*PrayerTexts, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, argumentError("date", err)
	}

	byNumber, err := storedPrayerTexts(ctx, store, date)
	if err != nil {
		return nil, err
	}

	loaded, err := LoadAssignment(ctx, store, logger, date)
	if err != nil {
		return nil, err
	}
	names, err := volunteerNames(ctx, store)
	if err != nil {
		return nil, err
	}

	result := &PrayerTexts{Date: date, Slots: make([]PrayerSlotText, len(model.PrayerSlots))}
	for i, role := range model.PrayerSlots {
		slot := prayer.NewSlot(i+1, byNumber[i+1])
		result.Slots[i] = PrayerSlotText{
			Slot:    slot.Number,
			Content: slot.Saved,
			State:   slot.State,
			Readers: resolveNames(loaded.Assignment.Get(role), names),
		}
	}
	return result, nil
}

func storedPrayerTexts(ctx context.Context, store db.PublicationStore, date string) (map[int]string, error) {
	stored, err := store.ListPrayerTexts(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list prayer texts: %w", err)
	}
	byNumber := make(map[int]string, len(stored))
	for _, p := range stored {
		byNumber[p.Slot] = p.Content
	}
	return byNumber, nil
}

// SetPrayerText edits and saves one prayer slot, returning the stored text
func SetPrayerText(ctx context.Context, store db.PublicationStore, logger *zap.Logger, date string, number int, content string) (string, error) {
	if _, err := model.ParseDate(date); err != nil {
		return "", argumentError("date", err)
	}
	if _, err := model.PrayerSlot(number); err != nil {
		return "", argumentError("slot", err)
	}

	current, err := storedPrayerTexts(ctx, store, date)
	if err != nil {
		return "", err
	}

	slot := prayer.NewSlot(number, current[number])
	slot.Edit()
	if err := slot.SetDraft(content); err != nil {
		return "", err
	}
	text, err := slot.Save()
	if err != nil {
		return "", err
	}

	if err := store.SetPrayerText(ctx, date, number, text); err != nil {
		return "", fmt.Errorf("failed to save prayer text: %w", err)
	}

	logger.Info("Prayer text saved", zap.String("date", date), zap.Int("slot", number))
	return text, nil
}
