package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/pkg/db"
)

func TestSetAvailability_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	logger := zap.NewNop()

	require.NoError(t, SetAvailability(ctx, store, logger, "vol-1", "2025-03-02", true))
	require.NoError(t, SetAvailability(ctx, store, logger, "vol-1", "2025-03-02", true))

	records, err := store.ListAvailability(ctx, "2025-03-02")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, SetAvailability(ctx, store, logger, "vol-1", "2025-03-02", false))
	require.NoError(t, SetAvailability(ctx, store, logger, "vol-1", "2025-03-02", false))

	records, err = store.ListAvailability(ctx, "2025-03-02")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSetAvailability_InvalidArguments(t *testing.T) {
	store := newStore()

	err := SetAvailability(context.Background(), store, zap.NewNop(), "vol-1", "2025-3-2", true)
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "date", argErr.Field)

	err = SetAvailability(context.Background(), store, zap.NewNop(), "", "2025-03-02", true)
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "volunteerId", argErr.Field)
}

func TestDeclareAvailability_Gates(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	cfg := testConfig()
	logger := zap.NewNop()
	ids := seedVolunteers(t, store, "Alice")

	// month closed by default
	err := DeclareAvailability(ctx, store, cfg, logger, ids[0], "2025-03-02", true)
	assert.ErrorIs(t, err, ErrMonthClosed)

	require.NoError(t, SetMonthOpen(ctx, store, logger, march2025, true))

	// not a Sunday
	err = DeclareAvailability(ctx, store, cfg, logger, ids[0], "2025-03-03", true)
	assert.ErrorIs(t, err, ErrDateNotEnabled)

	require.NoError(t, DeclareAvailability(ctx, store, cfg, logger, ids[0], "2025-03-02", true))

	// unknown volunteer
	err = DeclareAvailability(ctx, store, cfg, logger, "missing", "2025-03-02", true)
	assert.ErrorIs(t, err, db.ErrNotFound)

	// explicit enabled dates replace the default
	_, err = SetEnabledDates(ctx, store, logger, march2025, []string{"2025-03-03"})
	require.NoError(t, err)
	require.NoError(t, DeclareAvailability(ctx, store, cfg, logger, ids[0], "2025-03-03", true))
	err = DeclareAvailability(ctx, store, cfg, logger, ids[0], "2025-03-09", true)
	assert.ErrorIs(t, err, ErrDateNotEnabled)
}

func TestGetAvailableVolunteers_SkipsRemovedVolunteers(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	logger := zap.NewNop()
	ids := seedVolunteers(t, store, "Alice", "Bob")

	require.NoError(t, SetAvailability(ctx, store, logger, ids[0], "2025-03-02", true))
	require.NoError(t, SetAvailability(ctx, store, logger, ids[1], "2025-03-02", true))
	require.NoError(t, SetAvailability(ctx, store, logger, "ghost", "2025-03-02", true))

	volunteers, err := GetAvailableVolunteers(ctx, store, logger, "2025-03-02")
	require.NoError(t, err)

	got := make([]string, len(volunteers))
	for i, v := range volunteers {
		got[i] = v.ID
	}
	assert.ElementsMatch(t, ids, got)
}

func TestGetMonthApplications(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	cfg := testConfig()
	logger := zap.NewNop()
	ids := seedVolunteers(t, store, "Charlie", "Alice")

	require.NoError(t, SetAvailability(ctx, store, logger, ids[0], "2025-03-09", true))
	require.NoError(t, SetAvailability(ctx, store, logger, ids[1], "2025-03-09", true))
	require.NoError(t, SetAvailability(ctx, store, logger, ids[1], "2025-03-16", true))

	result, err := GetMonthApplications(ctx, store, cfg, logger, march2025)
	require.NoError(t, err)

	assert.Equal(t, "2025-03", result.Month)
	assert.False(t, result.IsOpen)
	assert.True(t, result.IsDefault)
	require.Len(t, result.Dates, 5)

	assert.Equal(t, "2025-03-02", result.Dates[0].Date)
	assert.Empty(t, result.Dates[0].Volunteers)

	assert.Equal(t, "2025-03-09", result.Dates[1].Date)
	assert.Equal(t, "Mar 9 (Sun)", result.Dates[1].Label)
	require.Len(t, result.Dates[1].Volunteers, 2)
	assert.Equal(t, "Alice", result.Dates[1].Volunteers[0].Name)
	assert.Equal(t, "Charlie", result.Dates[1].Volunteers[1].Name)

	require.Len(t, result.Dates[2].Volunteers, 1)
}
