package roles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

func ids(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ID
	}
	return out
}

func TestRankCandidates_FewestServicesFirst(t *testing.T) {
	candidates := []Candidate{
		{ID: "1", Name: "Alice", Tally: model.Tally{Commentary: 3}},
		{ID: "2", Name: "Bob", Tally: model.Tally{Commentary: 0, Reading: 5}},
		{ID: "3", Name: "Carol", Tally: model.Tally{Commentary: 1}},
	}

	ranked := RankCandidates(candidates, model.CategoryCommentary, nil)
	assert.Equal(t, []string{"2", "3", "1"}, ids(ranked))

	ranked = RankCandidates(candidates, model.CategoryReading, nil)
	assert.Equal(t, []string{"1", "3", "2"}, ids(ranked))
}

func TestRankCandidates_TiesBrokenByName(t *testing.T) {
	candidates := []Candidate{
		{ID: "b", Name: "Zoe"},
		{ID: "a", Name: "Adam"},
		{ID: "d", Name: "Mia"},
		{ID: "c", Name: "Mia"},
	}

	ranked := RankCandidates(candidates, model.CategoryPrayer, nil)

	assert.Equal(t, []string{"a", "c", "d", "b"}, ids(ranked))
}

func TestRankCandidates_CustomNameOrder(t *testing.T) {
	candidates := []Candidate{
		{ID: "1", Name: "alice"},
		{ID: "2", Name: "Bob"},
	}
	caseInsensitive := func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}

	assert.Equal(t, []string{"2", "1"}, ids(RankCandidates(candidates, model.CategoryPrayer, nil)))
	assert.Equal(t, []string{"1", "2"}, ids(RankCandidates(candidates, model.CategoryPrayer, caseInsensitive)))
}

func TestRankCandidates_DoesNotModifyInput(t *testing.T) {
	candidates := []Candidate{
		{ID: "1", Name: "Alice", Tally: model.Tally{Prayer: 2}},
		{ID: "2", Name: "Bob"},
	}

	_ = RankCandidates(candidates, model.CategoryPrayer, nil)

	assert.Equal(t, "1", candidates[0].ID)
}
