package roles

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

// completeAssignment returns an assignment that passes ValidateForSave
func completeAssignment() model.Assignment {
	return model.Assignment{
		Commentary: []string{"alice"},
		Reading1:   []string{"bob"},
		Reading2:   []string{"carol"},
		Prayer1:    []string{"dave"},
		Prayer2:    []string{"eve"},
		Prayer3:    []string{"frank"},
		Prayer4:    []string{"grace"},
	}
}

func TestToggle_AddsAndRemoves(t *testing.T) {
	a, err := Toggle(model.Assignment{}, model.SlotPrayer1, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, a.Prayer1)

	a, err = Toggle(a, model.SlotPrayer1, "alice")
	require.NoError(t, err)
	assert.Empty(t, a.Prayer1)
}

func TestToggle_DoesNotMutateInput(t *testing.T) {
	original := model.Assignment{Commentary: []string{"alice"}}

	_, err := Toggle(original, model.SlotCommentary, "bob")
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, original.Commentary)
}

func TestToggle_CommentaryRejectsReader(t *testing.T) {
	tests := []struct {
		name     string
		current  model.Assignment
		existing model.RoleSlot
	}{
		{"already reading_1", model.Assignment{Reading1: []string{"x"}}, model.SlotReading1},
		{"already reading_2", model.Assignment{Reading2: []string{"x"}}, model.SlotReading2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Toggle(tt.current, model.SlotCommentary, "x")

			var conflict *ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, model.SlotCommentary, conflict.Slot)
			assert.Equal(t, tt.existing, conflict.ExistingSlot)
			assert.Empty(t, result.Commentary)
		})
	}
}

func TestToggle_ReadingRejectsCommentator(t *testing.T) {
	current := model.Assignment{Commentary: []string{"x"}}

	result, err := Toggle(current, model.SlotReading1, "x")

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, model.SlotCommentary, conflict.ExistingSlot)
	assert.Empty(t, result.Reading1, "reading_1 must be unchanged")
	assert.Equal(t, []string{"x"}, result.Commentary)
}

func TestToggle_ReadingsAreMutuallyExclusive(t *testing.T) {
	_, err := Toggle(model.Assignment{Reading2: []string{"x"}}, model.SlotReading1, "x")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, model.SlotReading2, conflict.ExistingSlot)

	_, err = Toggle(model.Assignment{Reading1: []string{"x"}}, model.SlotReading2, "x")
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, model.SlotReading1, conflict.ExistingSlot)
}

func TestToggle_PrayerSlotsHaveNoExclusivity(t *testing.T) {
	a := model.Assignment{
		Commentary: []string{"x"},
		Prayer1:    []string{"x"},
	}

	a, err := Toggle(a, model.SlotPrayer2, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, a.Prayer2)

	a, err = Toggle(model.Assignment{Reading1: []string{"y"}}, model.SlotPrayer4, "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, a.Prayer4)
}

func TestToggle_CommentaryCapacity(t *testing.T) {
	current := model.Assignment{Commentary: []string{"alice", "bob"}}

	result, err := Toggle(current, model.SlotCommentary, "carol")

	var capacity *CapacityError
	require.ErrorAs(t, err, &capacity)
	assert.Equal(t, model.SlotCommentary, capacity.Slot)
	assert.Equal(t, 2, capacity.Limit)
	assert.Equal(t, []string{"alice", "bob"}, result.Commentary)
}

func TestToggle_SingleSlotCapacity(t *testing.T) {
	for _, slot := range model.AllSlots[1:] {
		t.Run(string(slot), func(t *testing.T) {
			current := model.Assignment{}.With(slot, []string{"alice"})

			result, err := Toggle(current, slot, "bob")

			var capacity *CapacityError
			require.ErrorAs(t, err, &capacity)
			assert.Equal(t, 1, capacity.Limit)
			assert.Equal(t, []string{"alice"}, result.Get(slot))
		})
	}
}

func TestToggle_RemovalFreesCapacity(t *testing.T) {
	current := model.Assignment{Commentary: []string{"alice", "bob"}}

	a, err := Toggle(current, model.SlotCommentary, "alice")
	require.NoError(t, err)
	a, err = Toggle(a, model.SlotCommentary, "carol")
	require.NoError(t, err)

	assert.Equal(t, []string{"bob", "carol"}, a.Commentary)
}

func TestToggle_UnknownSlot(t *testing.T) {
	_, err := Toggle(model.Assignment{}, model.RoleSlot("organist"), "alice")
	assert.ErrorIs(t, err, model.ErrUnknownSlot)
}

func TestToggle_RandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	volunteers := []string{"a", "b", "c", "d", "e"}

	a := model.Assignment{}
	for i := 0; i < 5000; i++ {
		slot := model.AllSlots[rng.Intn(len(model.AllSlots))]
		vol := volunteers[rng.Intn(len(volunteers))]

		next, err := Toggle(a, slot, vol)
		if err != nil {
			assert.Equal(t, a, next, "rejected toggle must not change state")
			var conflict *ConflictError
			var capacity *CapacityError
			require.True(t, errors.As(err, &conflict) || errors.As(err, &capacity), "unexpected error: %v", err)
		}
		a = next

		require.LessOrEqual(t, len(a.Commentary), 2)
		for _, s := range model.AllSlots[1:] {
			require.LessOrEqual(t, len(a.Get(s)), 1)
		}
		require.NoError(t, CheckConstraints(a))
		for _, v := range volunteers {
			inReading := a.Contains(model.SlotReading1, v) || a.Contains(model.SlotReading2, v)
			require.False(t, a.Contains(model.SlotCommentary, v) && inReading)
			require.False(t, a.Contains(model.SlotReading1, v) && a.Contains(model.SlotReading2, v))
		}
	}
}

func TestValidateForSave_Complete(t *testing.T) {
	assert.NoError(t, ValidateForSave(completeAssignment()))

	two := completeAssignment()
	two.Commentary = []string{"alice", "zoe"}
	assert.NoError(t, ValidateForSave(two))
}

func TestValidateForSave_Incomplete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *model.Assignment)
		slot   model.RoleSlot
	}{
		{"no commentary", func(a *model.Assignment) { a.Commentary = nil }, model.SlotCommentary},
		{"no reading_1", func(a *model.Assignment) { a.Reading1 = []string{} }, model.SlotReading1},
		{"two reading_2", func(a *model.Assignment) { a.Reading2 = []string{"x", "y"} }, model.SlotReading2},
		{"no prayer_1", func(a *model.Assignment) { a.Prayer1 = nil }, model.SlotPrayer1},
		{"no prayer_4", func(a *model.Assignment) { a.Prayer4 = nil }, model.SlotPrayer4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := completeAssignment()
			tt.mutate(&a)

			err := ValidateForSave(a)

			var incomplete *IncompleteError
			require.ErrorAs(t, err, &incomplete)
			assert.Equal(t, tt.slot, incomplete.Slot)
			assert.Equal(t, 1, incomplete.Min)
		})
	}
}

func TestValidateForSave_EmptyAssignment(t *testing.T) {
	var incomplete *IncompleteError
	require.ErrorAs(t, ValidateForSave(model.Assignment{}), &incomplete)
	assert.Equal(t, model.SlotCommentary, incomplete.Slot)
	assert.Contains(t, incomplete.Error(), "at least 1")
}

func TestCheckConstraints(t *testing.T) {
	assert.NoError(t, CheckConstraints(completeAssignment()))

	over := completeAssignment()
	over.Commentary = []string{"a", "b", "c"}
	var capacity *CapacityError
	assert.ErrorAs(t, CheckConstraints(over), &capacity)

	clash := completeAssignment()
	clash.Reading1 = []string{"alice"} // alice is the commentator
	var conflict *ConflictError
	assert.ErrorAs(t, CheckConstraints(clash), &conflict)

	both := completeAssignment()
	both.Reading2 = []string{"bob"} // bob already reads first
	assert.ErrorAs(t, CheckConstraints(both), &conflict)

	dup := completeAssignment()
	dup.Commentary = []string{"alice", "alice"}
	assert.Error(t, CheckConstraints(dup))
}
