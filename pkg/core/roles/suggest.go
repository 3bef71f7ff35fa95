package roles

import (
	"slices"
	"strings"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

// Criterion scores candidates when suggesting who should fill an empty slot
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsValid vetoes a candidate for the slot. If ANY criterion returns false the
	// candidate is skipped.
	IsValid(a model.Assignment, slot model.RoleSlot, c Candidate) bool

	// Affinity returns a score between 0.0 and 1.0 that is multiplied by Weight.
	// Higher scores are preferred.
	Affinity(a model.Assignment, slot model.RoleSlot, c Candidate) float64

	// Weight returns how influential Affinity is (typical range: 0.0 - 10.0)
	Weight() float64
}

// FewestServicesCriterion prefers volunteers who served least often this year
// in the slot's category
type FewestServicesCriterion struct {
	weight float64
}

func NewFewestServicesCriterion(weight float64) *FewestServicesCriterion {
	return &FewestServicesCriterion{weight: weight}
}

func (c *FewestServicesCriterion) Name() string { return "FewestServices" }

func (c *FewestServicesCriterion) IsValid(model.Assignment, model.RoleSlot, Candidate) bool {
	return true
}

// Affinity is 1 for a volunteer who has not served in the category, halving
// roughly with each service: 1/(1+n)
func (c *FewestServicesCriterion) Affinity(_ model.Assignment, slot model.RoleSlot, cand Candidate) float64 {
	return 1 / float64(1+cand.Tally.Count(slot.Category()))
}

func (c *FewestServicesCriterion) Weight() float64 { return c.weight }

// BalancedTotalCriterion prefers volunteers with the fewest services overall
type BalancedTotalCriterion struct {
	weight float64
}

func NewBalancedTotalCriterion(weight float64) *BalancedTotalCriterion {
	return &BalancedTotalCriterion{weight: weight}
}

func (c *BalancedTotalCriterion) Name() string { return "BalancedTotal" }

func (c *BalancedTotalCriterion) IsValid(model.Assignment, model.RoleSlot, Candidate) bool {
	return true
}

func (c *BalancedTotalCriterion) Affinity(_ model.Assignment, _ model.RoleSlot, cand Candidate) float64 {
	return 1 / float64(1+cand.Tally.Total())
}

func (c *BalancedTotalCriterion) Weight() float64 { return c.weight }

// OneRolePerDateCriterion vetoes volunteers who already hold any slot on the
// date. Prayer double-booking is allowed by Toggle but never suggested.
type OneRolePerDateCriterion struct{}

func (c OneRolePerDateCriterion) Name() string { return "OneRolePerDate" }

func (c OneRolePerDateCriterion) IsValid(a model.Assignment, _ model.RoleSlot, cand Candidate) bool {
	return !slices.Contains(a.VolunteerIDs(), cand.ID)
}

func (c OneRolePerDateCriterion) Affinity(model.Assignment, model.RoleSlot, Candidate) float64 {
	return 0
}

func (c OneRolePerDateCriterion) Weight() float64 { return 0 }

// DefaultCriteria is the criteria set used by the API and CLI
func DefaultCriteria() []Criterion {
	return []Criterion{
		OneRolePerDateCriterion{},
		NewFewestServicesCriterion(3),
		NewBalancedTotalCriterion(1),
	}
}

// Suggestion is a proposed assignment for a date
type Suggestion struct {
	Assignment model.Assignment `json:"assignment"`
	// Added lists the volunteer put into each slot that was empty
	Added map[model.RoleSlot]string `json:"added"`
	// Unfilled lists the slots no candidate could take
	Unfilled []model.RoleSlot `json:"unfilled"`
}

// Suggest fills every empty slot of current with the best scoring candidate,
// visiting slots in display order. Slots that already hold volunteers are kept
// as they are. Each pick goes through Toggle so the suggestion never breaks
// exclusivity or capacity. Ties keep the earlier candidate after ordering by
// compareNames (strings.Compare when nil).
//
// A suggestion is a hint only; it is never saved.
func Suggest(current model.Assignment, candidates []Candidate, criteria []Criterion, compareNames func(a, b string) int) Suggestion {
	if compareNames == nil {
		compareNames = strings.Compare
	}

	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, func(a, b Candidate) int {
		if c := compareNames(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	result := Suggestion{
		Assignment: current.Clone(),
		Added:      make(map[model.RoleSlot]string),
		Unfilled:   make([]model.RoleSlot, 0),
	}

	for _, slot := range model.AllSlots {
		if len(result.Assignment.Get(slot)) > 0 {
			continue
		}

		best, ok := bestCandidate(result.Assignment, slot, ordered, criteria)
		if !ok {
			result.Unfilled = append(result.Unfilled, slot)
			continue
		}

		next, err := Toggle(result.Assignment, slot, best.ID)
		if err != nil {
			result.Unfilled = append(result.Unfilled, slot)
			continue
		}
		result.Assignment = next
		result.Added[slot] = best.ID
	}

	return result
}

func bestCandidate(a model.Assignment, slot model.RoleSlot, ordered []Candidate, criteria []Criterion) (Candidate, bool) {
	var best Candidate
	bestScore := -1.0

	for _, cand := range ordered {
		if !isValidFor(a, slot, cand, criteria) {
			continue
		}

		score := 0.0
		for _, c := range criteria {
			score += c.Weight() * c.Affinity(a, slot, cand)
		}
		if score > bestScore {
			best, bestScore = cand, score
		}
	}

	return best, bestScore >= 0
}

func isValidFor(a model.Assignment, slot model.RoleSlot, cand Candidate, criteria []Criterion) bool {
	if a.Contains(slot, cand.ID) {
		return false
	}
	if _, err := Toggle(a, slot, cand.ID); err != nil {
		return false
	}
	for _, c := range criteria {
		if !c.IsValid(a, slot, cand) {
			return false
		}
	}
	return true
}
