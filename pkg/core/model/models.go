package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO date format used for every date key
const DateLayout = "2006-01-02"

// RoleSlot is one of the seven fixed liturgical duties assignable per date
type RoleSlot string

const (
	SlotCommentary RoleSlot = "commentary"
	SlotReading1   RoleSlot = "reading_1"
	SlotReading2   RoleSlot = "reading_2"
	SlotPrayer1    RoleSlot = "prayer_1"
	SlotPrayer2    RoleSlot = "prayer_2"
	SlotPrayer3    RoleSlot = "prayer_3"
	SlotPrayer4    RoleSlot = "prayer_4"
)

// AllSlots lists every role slot in display order
var AllSlots = []RoleSlot{
	SlotCommentary,
	SlotReading1,
	SlotReading2,
	SlotPrayer1,
	SlotPrayer2,
	SlotPrayer3,
	SlotPrayer4,
}

// PrayerSlots lists the universal prayer slots in order
var PrayerSlots = []RoleSlot{SlotPrayer1, SlotPrayer2, SlotPrayer3, SlotPrayer4}

// ErrUnknownSlot is returned when a slot key is not one of the seven role slots
var ErrUnknownSlot = errors.New("unknown role slot")

// ParseRoleSlot converts a raw key into a RoleSlot, rejecting unknown keys
func ParseRoleSlot(s string) (RoleSlot, error) {
	slot := RoleSlot(strings.TrimSpace(s))
	if !slot.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}
	return slot, nil
}

func (s RoleSlot) IsValid() bool {
	switch s {
	case SlotCommentary, SlotReading1, SlotReading2, SlotPrayer1, SlotPrayer2, SlotPrayer3, SlotPrayer4:
		return true
	}
	return false
}

// Capacity returns the maximum number of volunteers the slot holds
func (s RoleSlot) Capacity() int {
	if s == SlotCommentary {
		return 2
	}
	return 1
}

// Category groups the slot for tallying
func (s RoleSlot) Category() RoleCategory {
	switch s {
	case SlotCommentary:
		return CategoryCommentary
	case SlotReading1, SlotReading2:
		return CategoryReading
	default:
		return CategoryPrayer
	}
}

// Label returns the human-readable slot name used in schedule summaries
func (s RoleSlot) Label() string {
	switch s {
	case SlotCommentary:
		return "Commentary"
	case SlotReading1:
		return "Reading 1"
	case SlotReading2:
		return "Reading 2"
	case SlotPrayer1:
		return "Prayer 1"
	case SlotPrayer2:
		return "Prayer 2"
	case SlotPrayer3:
		return "Prayer 3"
	case SlotPrayer4:
		return "Prayer 4"
	}
	return string(s)
}

// PrayerSlot returns the prayer slot for a 1-based prayer number
func PrayerSlot(number int) (RoleSlot, error) {
	if number < 1 || number > len(PrayerSlots) {
		return "", fmt.Errorf("prayer slot must be between 1 and %d, got %d", len(PrayerSlots), number)
	}
	return PrayerSlots[number-1], nil
}

// RoleCategory is the tally bucket a slot counts towards
type RoleCategory string

const (
	CategoryCommentary RoleCategory = "commentary"
	CategoryReading    RoleCategory = "reading"
	CategoryPrayer     RoleCategory = "prayer"
)

// Tally is a yearly per-volunteer count of past assignments per category
type Tally struct {
	Commentary int `json:"commentary"`
	Reading    int `json:"reading"`
	Prayer     int `json:"prayer"`
}

// Count returns the tally for a single category
func (t Tally) Count(category RoleCategory) int {
	switch category {
	case CategoryCommentary:
		return t.Commentary
	case CategoryReading:
		return t.Reading
	case CategoryPrayer:
		return t.Prayer
	}
	return 0
}

// Total returns the sum across all categories
func (t Tally) Total() int {
	return t.Commentary + t.Reading + t.Prayer
}

// ParseDate parses an ISO yyyy-MM-dd date string
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected yyyy-MM-dd): %w", s, err)
	}
	return d, nil
}
