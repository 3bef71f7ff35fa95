package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/internal/config"
	"github.com/jakechorley/bethel-serve/pkg/clients/sheetsclient"
	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

// ErrPublishingDisabled is returned when no spreadsheet is configured
var ErrPublishingDisabled = errors.New("schedule publishing is not configured")

// SheetsClient defines the Google Sheets operations needed to publish a schedule
type SheetsClient interface {
	PublishSchedule(ctx context.Context, spreadsheetID string, schedule *sheetsclient.PublishedSchedule) error
}

// PublishSchedule builds the month schedule and writes it to the configured
// spreadsheet in a tab named after the month
func PublishSchedule(
	ctx context.Context,
	store ScheduleStore,
	sheetsClient SheetsClient,
	cfg *config.Config,
	logger *zap.Logger,
	month model.MonthKey,
) (*sheetsclient.PublishedSchedule, error) {
	if !cfg.PublishingEnabled() || sheetsClient == nil {
		return nil, ErrPublishingDisabled
	}

	schedule, err := MonthSchedule(ctx, store, cfg, logger, month)
	if err != nil {
		return nil, err
	}

	published := BuildPublishedSchedule(schedule)

	logger.Debug("Publishing schedule",
		zap.String("month", published.Month),
		zap.Int("rows", len(published.Rows)))

	if err := sheetsClient.PublishSchedule(ctx, cfg.Sheets.SpreadsheetID, published); err != nil {
		return nil, fmt.Errorf("failed to publish schedule: %w", err)
	}

	logger.Info("Schedule published", zap.String("month", published.Month))
	return published, nil
}

// BuildPublishedSchedule flattens schedule rows into spreadsheet rows
func BuildPublishedSchedule(schedule *MonthScheduleResult) *sheetsclient.PublishedSchedule {
	published := &sheetsclient.PublishedSchedule{
		Month: schedule.Month,
		Rows:  make([]sheetsclient.PublishedScheduleRow, len(schedule.Rows)),
	}

	for i, row := range schedule.Rows {
		out := sheetsclient.PublishedScheduleRow{
			Date:       row.Date,
			Day:        row.Label,
			Commentary: strings.Join(row.Slots[model.SlotCommentary], ", "),
			Reading1:   strings.Join(row.Slots[model.SlotReading1], ", "),
			Reading2:   strings.Join(row.Slots[model.SlotReading2], ", "),
		}
		for n, slot := range model.PrayerSlots {
			out.Prayers[n] = strings.Join(row.Slots[slot], ", ")
		}
		published.Rows[i] = out
	}

	return published
}
