package roles

import (
	"fmt"
	"slices"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

// ConflictError is returned when adding a volunteer would break the exclusivity
// between commentary and the reading slots
type ConflictError struct {
	Slot         model.RoleSlot
	ExistingSlot model.RoleSlot
	VolunteerID  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("volunteer %s is already assigned to %s and cannot also take %s",
		e.VolunteerID, e.ExistingSlot, e.Slot)
}

// CapacityError is returned when a slot would hold more volunteers than its limit
type CapacityError struct {
	Slot  model.RoleSlot
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s holds at most %d volunteer(s)", e.Slot, e.Limit)
}

// IncompleteError is returned by ValidateForSave when a required slot is not filled
type IncompleteError struct {
	Slot model.RoleSlot
	Min  int
	Max  int
	Got  int
}

func (e *IncompleteError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("%s requires exactly %d volunteer(s), got %d", e.Slot, e.Min, e.Got)
	}
	return fmt.Sprintf("%s requires at least %d volunteer(s), got %d", e.Slot, e.Min, e.Got)
}

// exclusiveWith lists the slots a volunteer may not already hold when being added to a slot
func exclusiveWith(slot model.RoleSlot) []model.RoleSlot {
	switch slot {
	case model.SlotCommentary:
		return []model.RoleSlot{model.SlotReading1, model.SlotReading2}
	case model.SlotReading1:
		return []model.RoleSlot{model.SlotCommentary, model.SlotReading2}
	case model.SlotReading2:
		return []model.RoleSlot{model.SlotCommentary, model.SlotReading1}
	}
	return nil
}

// Toggle adds the volunteer to the slot, or removes them if already present.
// The input assignment is never modified; on error the returned assignment is the
// unchanged input.
func Toggle(current model.Assignment, slot model.RoleSlot, volunteerID string) (model.Assignment, error) {
	if !slot.IsValid() {
		return current, fmt.Errorf("%w: %q", model.ErrUnknownSlot, slot)
	}
	if volunteerID == "" {
		return current, fmt.Errorf("volunteer id is required")
	}

	list := current.Get(slot)
	adding := !slices.Contains(list, volunteerID)

	var candidate []string
	if adding {
		for _, other := range exclusiveWith(slot) {
			if current.Contains(other, volunteerID) {
				return current, &ConflictError{Slot: slot, ExistingSlot: other, VolunteerID: volunteerID}
			}
		}
		candidate = append(slices.Clone(list), volunteerID)
	} else {
		candidate = slices.DeleteFunc(slices.Clone(list), func(id string) bool { return id == volunteerID })
	}

	if len(candidate) > slot.Capacity() {
		return current, &CapacityError{Slot: slot, Limit: slot.Capacity()}
	}

	return current.With(slot, candidate), nil
}

// ValidateForSave checks that an assignment is complete enough to be saved:
// at least one commentary and exactly one volunteer in each other slot.
// Returns the first failing slot in slot order.
func ValidateForSave(a model.Assignment) error {
	if got := len(a.Commentary); got < 1 {
		return &IncompleteError{Slot: model.SlotCommentary, Min: 1, Max: model.SlotCommentary.Capacity(), Got: got}
	}
	for _, slot := range model.AllSlots[1:] {
		if got := len(a.Get(slot)); got != 1 {
			return &IncompleteError{Slot: slot, Min: 1, Max: 1, Got: got}
		}
	}
	return nil
}

// CheckConstraints verifies slot capacities and cross-slot exclusivity for an
// assignment that did not arrive through Toggle. Duplicate IDs within a slot are
// also rejected.
func CheckConstraints(a model.Assignment) error {
	for _, slot := range model.AllSlots {
		ids := a.Get(slot)
		if len(ids) > slot.Capacity() {
			return &CapacityError{Slot: slot, Limit: slot.Capacity()}
		}
		for i, id := range ids {
			if slices.Contains(ids[i+1:], id) {
				return fmt.Errorf("volunteer %s listed twice in %s", id, slot)
			}
		}
	}

	for _, slot := range []model.RoleSlot{model.SlotReading1, model.SlotReading2} {
		for _, id := range a.Get(slot) {
			for _, other := range exclusiveWith(slot) {
				if a.Contains(other, id) {
					return &ConflictError{Slot: slot, ExistingSlot: other, VolunteerID: id}
				}
			}
		}
	}

	return nil
}
