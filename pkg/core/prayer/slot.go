package prayer

import (
	"errors"
	"fmt"
)

// State is the editing state of a single prayer slot
type State string

const (
	StateUnset   State = "unset"
	StateEditing State = "editing"
	StateSaved   State = "saved"
)

// ErrNotEditing is returned when saving a slot that is not being edited
var ErrNotEditing = errors.New("prayer slot is not being edited")

// Slot tracks the text of one universal prayer slot on one date.
// Transitions: unset -> editing -> saved, and saved -> editing again.
type Slot struct {
	Number int
	State  State
	Saved  string
	Draft  string
}

// NewSlot returns a slot in its initial state. A slot that already has stored
// text starts saved.
func NewSlot(number int, stored string) *Slot {
	s := &Slot{Number: number, State: StateUnset}
	if stored != "" {
		s.State = StateSaved
		s.Saved = stored
	}
	return s
}

// Edit enters the editing state with the saved text as the draft
func (s *Slot) Edit() {
	if s.State != StateEditing {
		s.Draft = s.Saved
	}
	s.State = StateEditing
}

// SetDraft replaces the draft text; only valid while editing
func (s *Slot) SetDraft(text string) error {
	if s.State != StateEditing {
		return fmt.Errorf("prayer %d: %w", s.Number, ErrNotEditing)
	}
	s.Draft = text
	return nil
}

// Save commits the draft as typed and returns the text to persist
func (s *Slot) Save() (string, error) {
	if s.State != StateEditing {
		return "", fmt.Errorf("prayer %d: %w", s.Number, ErrNotEditing)
	}
	s.Saved = s.Draft
	s.Draft = ""
	s.State = StateSaved
	return s.Saved, nil
}

// Cancel leaves editing without saving
func (s *Slot) Cancel() {
	if s.State != StateEditing {
		return
	}
	s.Draft = ""
	if s.Saved == "" {
		s.State = StateUnset
	} else {
		s.State = StateSaved
	}
}
