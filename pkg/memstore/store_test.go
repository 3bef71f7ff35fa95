package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

func TestVolunteers(t *testing.T) {
	ctx := context.Background()
	s := New()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.InsertVolunteer(ctx, &db.Volunteer{ID: "v2", Name: "Bob", CreatedAt: created.Add(time.Hour)}))
	require.NoError(t, s.InsertVolunteer(ctx, &db.Volunteer{ID: "v1", Name: "Alice", CreatedAt: created}))

	list, err := s.ListVolunteers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "v1", list[0].ID)

	require.NoError(t, s.UpdateVolunteerName(ctx, "v1", "Alicia", created.Add(2*time.Hour)))
	v, err := s.GetVolunteer(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", v.Name)
	require.NotNil(t, v.UpdatedAt)

	require.NoError(t, s.DeleteVolunteer(ctx, "v1"))
	_, err = s.GetVolunteer(ctx, "v1")
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.ErrorIs(t, s.DeleteVolunteer(ctx, "v1"), db.ErrNotFound)
	assert.ErrorIs(t, s.UpdateVolunteerName(ctx, "missing", "x", created), db.ErrNotFound)
}

func TestAvailability(t *testing.T) {
	ctx := context.Background()
	s := New()
	ts := time.Now()

	require.NoError(t, s.SetAvailability(ctx, "2025-03-02", "v1", ts))
	require.NoError(t, s.SetAvailability(ctx, "2025-03-02", "v1", ts)) // idempotent
	require.NoError(t, s.SetAvailability(ctx, "2025-03-02", "v2", ts))
	require.NoError(t, s.SetAvailability(ctx, "2025-03-09", "v1", ts))

	list, err := s.ListAvailability(ctx, "2025-03-02")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.DeleteAvailability(ctx, "2025-03-02", "v2"))
	require.NoError(t, s.DeleteAvailability(ctx, "2025-03-02", "v2"))
	list, err = s.ListAvailability(ctx, "2025-03-02")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	removed, err := s.DeleteAvailabilityForVolunteer(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list, err = s.ListAvailability(ctx, "2025-03-09")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRoleAssignment_Versioning(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.GetRoleAssignment(ctx, "2025-03-02")
	assert.ErrorIs(t, err, db.ErrNotFound)

	zero := 0
	version, err := s.SaveRoleAssignment(ctx, "2025-03-02", model.Assignment{Commentary: []string{"a"}}, &zero)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	// stale writer
	_, err = s.SaveRoleAssignment(ctx, "2025-03-02", model.Assignment{Commentary: []string{"b"}}, &zero)
	assert.ErrorIs(t, err, db.ErrVersionConflict)

	rec, err := s.GetRoleAssignment(ctx, "2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, rec.Selections.Commentary)

	// last write wins without a version
	version, err = s.SaveRoleAssignment(ctx, "2025-03-02", model.Assignment{Commentary: []string{"c"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestRoleAssignment_ReturnedCopyIsIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.SaveRoleAssignment(ctx, "2025-03-02", model.Assignment{Commentary: []string{"a"}}, nil)
	require.NoError(t, err)

	rec, err := s.GetRoleAssignment(ctx, "2025-03-02")
	require.NoError(t, err)
	rec.Selections.Commentary[0] = "mutated"

	again, err := s.GetRoleAssignment(ctx, "2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.Selections.Commentary)
}

func TestListRoleAssignments_Range(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, date := range []string{"2025-03-09", "2024-12-29", "2025-03-02", "2026-01-04"} {
		_, err := s.SaveRoleAssignment(ctx, date, model.Assignment{}, nil)
		require.NoError(t, err)
	}

	list, err := s.ListRoleAssignments(ctx, "2025-01-01", "2025-12-31")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03-02", list[0].Date)
	assert.Equal(t, "2025-03-09", list[1].Date)
}

func TestPublication(t *testing.T) {
	ctx := context.Background()
	s := New()
	march := model.MonthKey{Year: 2025, Month: time.March}

	open, err := s.GetMonthOpen(ctx, march)
	require.NoError(t, err)
	assert.False(t, open)
	require.NoError(t, s.SetMonthOpen(ctx, march, true))
	open, err = s.GetMonthOpen(ctx, march)
	require.NoError(t, err)
	assert.True(t, open)

	rec, err := s.GetEnabledDates(ctx, march)
	require.NoError(t, err)
	assert.Nil(t, rec, "absent record")

	require.NoError(t, s.SetEnabledDates(ctx, march, []string{}))
	rec, err = s.GetEnabledDates(ctx, march)
	require.NoError(t, err)
	require.NotNil(t, rec, "stored empty list is not absent")
	assert.Empty(t, rec.Dates)

	text, err := s.GetAnnouncement(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, "", text)
	require.NoError(t, s.SetAnnouncement(ctx, march, "Welcome"))
	text, err = s.GetAnnouncement(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, "Welcome", text)

	require.NoError(t, s.SetPrayerText(ctx, "2025-03-02", 3, "third"))
	require.NoError(t, s.SetPrayerText(ctx, "2025-03-02", 1, "first"))
	require.NoError(t, s.SetPrayerText(ctx, "2025-03-09", 1, "other date"))
	prayers, err := s.ListPrayerTexts(ctx, "2025-03-02")
	require.NoError(t, err)
	require.Len(t, prayers, 2)
	assert.Equal(t, "first", prayers[0].Content)
	assert.Equal(t, 3, prayers[1].Slot)
}

func TestConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.SaveRoleAssignment(ctx, "2025-03-02", model.Assignment{}, nil)
			_ = s.SetAvailability(ctx, "2025-03-02", "v1", time.Now())
		}()
	}
	wg.Wait()

	rec, err := s.GetRoleAssignment(ctx, "2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, 50, rec.Version)
}
