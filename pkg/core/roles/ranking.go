package roles

import (
	"slices"
	"strings"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

// Candidate is a volunteer available on a date, along with their yearly tally
type Candidate struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Tally model.Tally `json:"tally"`
}

// RankCandidates orders candidates for a role category so that volunteers who have
// served least often in that category this year come first. Ties are broken by
// compareNames (strings.Compare when nil), then by ID. The input is not modified.
//
// The ranking is a load-balancing hint only; nothing enforces it.
func RankCandidates(candidates []Candidate, category model.RoleCategory, compareNames func(a, b string) int) []Candidate {
	if compareNames == nil {
		compareNames = strings.Compare
	}

	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b Candidate) int {
		if ca, cb := a.Tally.Count(category), b.Tally.Count(category); ca != cb {
			return ca - cb
		}
		if c := compareNames(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return ranked
}
