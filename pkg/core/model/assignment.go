package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Assignment maps each of the seven role slots to an ordered list of volunteer IDs
// for a single date. The zero value is the all-empty assignment.
type Assignment struct {
	Commentary []string
	Reading1   []string
	Reading2   []string
	Prayer1    []string
	Prayer2    []string
	Prayer3    []string
	Prayer4    []string
}

// DatedAssignment pairs an assignment with the date it belongs to
type DatedAssignment struct {
	Date       string
	Assignment Assignment
}

// Get returns the volunteer IDs held by a slot (nil for an unknown slot)
func (a Assignment) Get(slot RoleSlot) []string {
	switch slot {
	case SlotCommentary:
		return a.Commentary
	case SlotReading1:
		return a.Reading1
	case SlotReading2:
		return a.Reading2
	case SlotPrayer1:
		return a.Prayer1
	case SlotPrayer2:
		return a.Prayer2
	case SlotPrayer3:
		return a.Prayer3
	case SlotPrayer4:
		return a.Prayer4
	}
	return nil
}

// With returns a copy of the assignment with the slot's list replaced
func (a Assignment) With(slot RoleSlot, ids []string) Assignment {
	out := a.Clone()
	list := slices.Clone(ids)
	if list == nil {
		list = []string{}
	}
	switch slot {
	case SlotCommentary:
		out.Commentary = list
	case SlotReading1:
		out.Reading1 = list
	case SlotReading2:
		out.Reading2 = list
	case SlotPrayer1:
		out.Prayer1 = list
	case SlotPrayer2:
		out.Prayer2 = list
	case SlotPrayer3:
		out.Prayer3 = list
	case SlotPrayer4:
		out.Prayer4 = list
	}
	return out
}

// Contains reports whether the volunteer is listed under the slot
func (a Assignment) Contains(slot RoleSlot, volunteerID string) bool {
	return slices.Contains(a.Get(slot), volunteerID)
}

// Clone returns a deep copy with every slot normalised to a non-nil list
func (a Assignment) Clone() Assignment {
	cp := func(ids []string) []string {
		if ids == nil {
			return []string{}
		}
		return slices.Clone(ids)
	}
	return Assignment{
		Commentary: cp(a.Commentary),
		Reading1:   cp(a.Reading1),
		Reading2:   cp(a.Reading2),
		Prayer1:    cp(a.Prayer1),
		Prayer2:    cp(a.Prayer2),
		Prayer3:    cp(a.Prayer3),
		Prayer4:    cp(a.Prayer4),
	}
}

// IsEmpty reports whether no slot holds a volunteer
func (a Assignment) IsEmpty() bool {
	for _, slot := range AllSlots {
		if len(a.Get(slot)) > 0 {
			return false
		}
	}
	return true
}

// VolunteerIDs returns every distinct volunteer ID in slot order
func (a Assignment) VolunteerIDs() []string {
	var ids []string
	for _, slot := range AllSlots {
		for _, id := range a.Get(slot) {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// MarshalJSON writes all seven slots, using empty lists rather than null
func (a Assignment) MarshalJSON() ([]byte, error) {
	out := make(map[RoleSlot][]string, len(AllSlots))
	norm := a.Clone()
	for _, slot := range AllSlots {
		out[slot] = norm.Get(slot)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts an object keyed by slot name and rejects unknown keys.
// Missing slots decode as empty lists.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := Assignment{}.Clone()
	for key, ids := range raw {
		slot, err := ParseRoleSlot(key)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if id == "" {
				return fmt.Errorf("empty volunteer id in slot %s", slot)
			}
		}
		result = result.With(slot, ids)
	}

	*a = result
	return nil
}
