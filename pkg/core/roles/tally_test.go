package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

func dated(date string, a model.Assignment) model.DatedAssignment {
	return model.DatedAssignment{Date: date, Assignment: a}
}

func TestTally_CoCommentatorsEachCountOnce(t *testing.T) {
	records := []model.DatedAssignment{
		dated("2025-03-02", model.Assignment{Commentary: []string{"alice", "bob"}}),
	}

	assert.Equal(t, model.Tally{Commentary: 1}, Tally(records, "alice", 2025))
	assert.Equal(t, model.Tally{Commentary: 1}, Tally(records, "bob", 2025))
}

func TestTally_OnlyCountsRequestedYear(t *testing.T) {
	records := []model.DatedAssignment{
		dated("2024-12-29", model.Assignment{Reading1: []string{"alice"}}),
		dated("2025-01-05", model.Assignment{Reading2: []string{"alice"}}),
		dated("2025-01-12", model.Assignment{Reading1: []string{"alice"}}),
		dated("2026-01-04", model.Assignment{Reading1: []string{"alice"}}),
	}

	assert.Equal(t, model.Tally{Reading: 2}, Tally(records, "alice", 2025))
	assert.Equal(t, model.Tally{Reading: 1}, Tally(records, "alice", 2024))
	assert.Equal(t, model.Tally{}, Tally(records, "alice", 2023))
}

func TestTally_PrayerCountsOncePerDate(t *testing.T) {
	records := []model.DatedAssignment{
		dated("2025-03-02", model.Assignment{
			Prayer1: []string{"alice"},
			Prayer3: []string{"alice"},
		}),
		dated("2025-03-09", model.Assignment{Prayer4: []string{"alice"}}),
	}

	assert.Equal(t, model.Tally{Prayer: 2}, Tally(records, "alice", 2025))
}

func TestTally_MixedCategoriesOnOneDate(t *testing.T) {
	records := []model.DatedAssignment{
		dated("2025-05-04", model.Assignment{
			Commentary: []string{"alice"},
			Reading1:   []string{"bob"},
			Prayer2:    []string{"alice"},
		}),
	}

	assert.Equal(t, model.Tally{Commentary: 1, Prayer: 1}, Tally(records, "alice", 2025))
	assert.Equal(t, model.Tally{Reading: 1}, Tally(records, "bob", 2025))
	assert.Equal(t, model.Tally{}, Tally(records, "carol", 2025))
}

func TestTallyAll(t *testing.T) {
	records := []model.DatedAssignment{
		dated("2025-03-02", model.Assignment{
			Commentary: []string{"alice", "bob"},
			Reading1:   []string{"carol"},
			Prayer1:    []string{"carol"},
		}),
		dated("2025-03-09", model.Assignment{
			Commentary: []string{"alice"},
			Reading2:   []string{"bob"},
		}),
		dated("2024-03-10", model.Assignment{Commentary: []string{"dave"}}),
	}

	all := TallyAll(records, 2025)

	assert.Equal(t, map[string]model.Tally{
		"alice": {Commentary: 2},
		"bob":   {Commentary: 1, Reading: 1},
		"carol": {Reading: 1, Prayer: 1},
	}, all)

	for id, tally := range all {
		assert.Equal(t, Tally(records, id, 2025), tally, id)
	}
}
