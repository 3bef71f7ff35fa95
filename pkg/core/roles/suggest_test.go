package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

func sevenCandidates() []Candidate {
	return []Candidate{
		{ID: "a", Name: "Alice"},
		{ID: "b", Name: "Bob"},
		{ID: "c", Name: "Carol"},
		{ID: "d", Name: "Dave"},
		{ID: "e", Name: "Eve"},
		{ID: "f", Name: "Frank"},
		{ID: "g", Name: "Grace"},
	}
}

func TestSuggest_FillsEmptyAssignment(t *testing.T) {
	s := Suggest(model.Assignment{}, sevenCandidates(), DefaultCriteria(), nil)

	assert.Empty(t, s.Unfilled)
	require.NoError(t, ValidateForSave(s.Assignment))
	require.NoError(t, CheckConstraints(s.Assignment))
	assert.Len(t, s.Added, len(model.AllSlots))

	// equal tallies: name order decides
	assert.Equal(t, []string{"a"}, s.Assignment.Commentary)
	assert.Equal(t, []string{"b"}, s.Assignment.Reading1)
	assert.Equal(t, []string{"g"}, s.Assignment.Prayer4)
}

func TestSuggest_PrefersFewestServicesInCategory(t *testing.T) {
	candidates := []Candidate{
		{ID: "a", Name: "Alice", Tally: model.Tally{Commentary: 4}},
		{ID: "b", Name: "Bob", Tally: model.Tally{Reading: 3}},
		{ID: "c", Name: "Carol", Tally: model.Tally{Commentary: 1}},
	}

	s := Suggest(model.Assignment{}, candidates, DefaultCriteria(), nil)

	// Bob has never commentated; Carol has the lower overall total for readings
	assert.Equal(t, []string{"b"}, s.Assignment.Commentary)
	assert.Equal(t, []string{"c"}, s.Assignment.Reading1)
	assert.Equal(t, []string{"a"}, s.Assignment.Reading2)
}

func TestSuggest_KeepsExistingPicksAndReportsUnfilled(t *testing.T) {
	current := model.Assignment{
		Commentary: []string{"x", "y"},
		Reading1:   []string{"a"},
	}
	candidates := []Candidate{
		{ID: "a", Name: "Alice"},
		{ID: "b", Name: "Bob"},
	}

	s := Suggest(current, candidates, DefaultCriteria(), nil)

	assert.Equal(t, []string{"x", "y"}, s.Assignment.Commentary)
	assert.Equal(t, []string{"a"}, s.Assignment.Reading1)
	assert.Equal(t, []string{"b"}, s.Assignment.Reading2)
	assert.Equal(t, []model.RoleSlot{model.SlotPrayer1, model.SlotPrayer2, model.SlotPrayer3, model.SlotPrayer4}, s.Unfilled)
	assert.Equal(t, map[model.RoleSlot]string{model.SlotReading2: "b"}, s.Added)

	// input untouched
	assert.Empty(t, current.Reading2)
}

func TestSuggest_WithoutOneRolePerDateStillRespectsExclusivity(t *testing.T) {
	candidates := []Candidate{{ID: "a", Name: "Alice"}}

	s := Suggest(model.Assignment{}, candidates, []Criterion{NewFewestServicesCriterion(1)}, nil)

	// commentary blocks both readings; prayers may be double-booked by Toggle
	assert.Equal(t, []string{"a"}, s.Assignment.Commentary)
	assert.Empty(t, s.Assignment.Reading1)
	assert.Empty(t, s.Assignment.Reading2)
	assert.Equal(t, []string{"a"}, s.Assignment.Prayer1)
	assert.Equal(t, []model.RoleSlot{model.SlotReading1, model.SlotReading2}, s.Unfilled)
}

func TestSuggest_NoCandidates(t *testing.T) {
	s := Suggest(model.Assignment{}, nil, DefaultCriteria(), nil)

	assert.Equal(t, model.AllSlots, s.Unfilled)
	assert.True(t, s.Assignment.IsEmpty())
}
