package sheetsclient

import (
	"context"
	"fmt"
)

// ScheduleColumns are the columns managed by PublishSchedule, in the order a
// new tab lays them out. Any other column in an existing tab is left alone.
var ScheduleColumns = []string{
	"Date",
	"Day",
	"Commentary",
	"Reading 1",
	"Reading 2",
	"Prayer 1",
	"Prayer 2",
	"Prayer 3",
	"Prayer 4",
}

// PublishedScheduleRow is one service date of the published schedule
type PublishedScheduleRow struct {
	Date       string // Format: "2006-01-02"
	Day        string // Localised label, e.g. "3월 9일 (일)"
	Commentary string // Comma separated names
	Reading1   string
	Reading2   string
	Prayers    [4]string
}

func (r PublishedScheduleRow) cells() []string {
	return []string{r.Date, r.Day, r.Commentary, r.Reading1, r.Reading2, r.Prayers[0], r.Prayers[1], r.Prayers[2], r.Prayers[3]}
}

// PublishedSchedule is the schedule of one month
type PublishedSchedule struct {
	Month string // Format: "2006-01", also the tab title
	Rows  []PublishedScheduleRow
}

// PublishSchedule writes the schedule to the tab named after its month.
// If the tab doesn't exist it is created. If it exists, the managed columns are
// overwritten and other columns keep their values for rows whose date is still
// scheduled.
func (c *Client) PublishSchedule(ctx context.Context, spreadsheetID string, schedule *PublishedSchedule) error {
	exists, err := c.SheetExists(ctx, spreadsheetID, schedule.Month)
	if err != nil {
		return err
	}

	var existing [][]interface{}
	if exists {
		existing, err = c.GetValues(ctx, spreadsheetID, fmt.Sprintf("%s!A1:ZZ", schedule.Month))
		if err != nil {
			return fmt.Errorf("failed to read existing tab data: %w", err)
		}
	} else {
		if _, err := c.CreateSheet(ctx, spreadsheetID, schedule.Month); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	values := BuildScheduleValues(existing, schedule)
	if err := c.UpdateValues(ctx, spreadsheetID, fmt.Sprintf("%s!A1", schedule.Month), values); err != nil {
		return fmt.Errorf("failed to write schedule tab: %w", err)
	}

	return nil
}

// BuildScheduleValues merges the schedule into the existing tab contents (header
// in the first row) and returns the full grid to write from A1. Managed columns
// missing from the existing header are appended. Rows left over from a longer
// previous version are blanked.
func BuildScheduleValues(existing [][]interface{}, schedule *PublishedSchedule) [][]interface{} {
	var header []interface{}
	if len(existing) > 0 {
		header = append(header, existing[0]...)
	}

	managed := make([]int, len(ScheduleColumns))
	for i, name := range ScheduleColumns {
		col := findColumnIndex(header, name)
		if col == -1 {
			header = append(header, name)
			col = len(header) - 1
		}
		managed[i] = col
	}
	width := len(header)

	dateCol := managed[0]
	previous := make(map[string][]interface{})
	if len(existing) > 1 {
		for _, row := range existing[1:] {
			if dateCol < len(row) {
				if date, ok := row[dateCol].(string); ok && date != "" {
					previous[date] = row
				}
			}
		}
	}

	values := make([][]interface{}, 0, max(len(existing), len(schedule.Rows)+1))
	values = append(values, header)
	for _, row := range schedule.Rows {
		out := make([]interface{}, width)
		old := previous[row.Date]
		for i := range out {
			if i < len(old) {
				out[i] = old[i]
			} else {
				out[i] = ""
			}
		}
		for i, cell := range row.cells() {
			out[managed[i]] = cell
		}
		values = append(values, out)
	}

	for len(values) < len(existing) {
		blank := make([]interface{}, width)
		for i := range blank {
			blank[i] = ""
		}
		values = append(values, blank)
	}

	return values
}

// findColumnIndex finds the index of a column by its header name
func findColumnIndex(header []interface{}, columnName string) int {
	for i, cell := range header {
		if str, ok := cell.(string); ok && str == columnName {
			return i
		}
	}
	return -1
}
