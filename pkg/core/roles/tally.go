package roles

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

// Tally counts, for one volunteer, the dates in the given year on which they served
// in each role category. Each category contributes at most one unit per date:
// two co-commentators each get one commentary unit, and a volunteer listed in
// more than one prayer slot on the same date still counts a single prayer unit.
func Tally(records []model.DatedAssignment, volunteerID string, year int) model.Tally {
	prefix := yearPrefix(year)
	var t model.Tally

	for _, rec := range records {
		if !strings.HasPrefix(rec.Date, prefix) {
			continue
		}
		addDate(&t, rec.Assignment, volunteerID)
	}

	return t
}

// TallyAll computes the tally of every volunteer appearing in the year's records
func TallyAll(records []model.DatedAssignment, year int) map[string]model.Tally {
	prefix := yearPrefix(year)
	result := make(map[string]model.Tally)

	for _, rec := range records {
		if !strings.HasPrefix(rec.Date, prefix) {
			continue
		}
		for _, id := range rec.Assignment.VolunteerIDs() {
			t := result[id]
			addDate(&t, rec.Assignment, id)
			result[id] = t
		}
	}

	return result
}

func addDate(t *model.Tally, a model.Assignment, volunteerID string) {
	if a.Contains(model.SlotCommentary, volunteerID) {
		t.Commentary++
	}
	if a.Contains(model.SlotReading1, volunteerID) || a.Contains(model.SlotReading2, volunteerID) {
		t.Reading++
	}
	if slices.ContainsFunc(model.PrayerSlots, func(slot model.RoleSlot) bool {
		return a.Contains(slot, volunteerID)
	}) {
		t.Prayer++
	}
}

func yearPrefix(year int) string {
	return fmt.Sprintf("%04d-", year)
}
