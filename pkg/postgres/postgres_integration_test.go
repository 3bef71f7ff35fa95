//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

var (
	sharedDB     *DB
	sharedDBOnce sync.Once
	sharedDBErr  error
)

// getTestDB starts one postgres container for the package run and applies migrations
func getTestDB(t *testing.T) *DB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedDBOnce.Do(func() {
		sharedDB, sharedDBErr = setupTestDB()
	})
	require.NoError(t, sharedDBErr, "failed to set up test database")

	return sharedDB
}

func setupTestDB() (*DB, error) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "bethel_test",
				"POSTGRES_USER":     "bethel",
				"POSTGRES_PASSWORD": "test_password",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://bethel:test_password@%s:%s/bethel_test?sslmode=disable", host, port.Port())

	d, err := NewDB(ctx, connStr, zap.NewNop())
	if err != nil {
		return nil, err
	}
	if _, err := d.RunMigrations(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func TestRunMigrations_Idempotent(t *testing.T) {
	d := getTestDB(t)

	applied, err := d.RunMigrations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestVolunteerLifecycle(t *testing.T) {
	d := getTestDB(t)
	ctx := context.Background()

	v := &db.Volunteer{ID: "it-vol-1", Name: "Alice", CreatedAt: time.Now()}
	require.NoError(t, d.InsertVolunteer(ctx, v))

	require.NoError(t, d.UpdateVolunteerName(ctx, v.ID, "Alicia", time.Now()))
	got, err := d.GetVolunteer(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
	assert.NotNil(t, got.UpdatedAt)

	require.NoError(t, d.SetAvailability(ctx, "2031-03-02", v.ID, time.Now()))
	require.NoError(t, d.SetAvailability(ctx, "2031-03-09", v.ID, time.Now()))
	removed, err := d.DeleteAvailabilityForVolunteer(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	require.NoError(t, d.DeleteVolunteer(ctx, v.ID))
	_, err = d.GetVolunteer(ctx, v.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestAvailabilityUpsert(t *testing.T) {
	d := getTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.SetAvailability(ctx, "2031-04-06", "it-vol-2", time.Now()))
	require.NoError(t, d.SetAvailability(ctx, "2031-04-06", "it-vol-2", time.Now()))

	records, err := d.ListAvailability(ctx, "2031-04-06")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2031-04-06", records[0].Date)

	require.NoError(t, d.DeleteAvailability(ctx, "2031-04-06", "it-vol-2"))
	require.NoError(t, d.DeleteAvailability(ctx, "2031-04-06", "it-vol-2"))
}

func TestRoleAssignmentVersioning(t *testing.T) {
	d := getTestDB(t)
	ctx := context.Background()
	date := "2031-05-04"

	zero := 0
	version, err := d.SaveRoleAssignment(ctx, date, model.Assignment{Commentary: []string{"a", "b"}}, &zero)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	_, err = d.SaveRoleAssignment(ctx, date, model.Assignment{}, &zero)
	assert.ErrorIs(t, err, db.ErrVersionConflict)

	one := 1
	version, err = d.SaveRoleAssignment(ctx, date, model.Assignment{Reading1: []string{"c"}}, &one)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	version, err = d.SaveRoleAssignment(ctx, date, model.Assignment{Reading1: []string{"d"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, version)

	rec, err := d.GetRoleAssignment(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, rec.Selections.Reading1)
	assert.Equal(t, []string{}, rec.Selections.Commentary)

	list, err := d.ListRoleAssignments(ctx, "2031-01-01", "2031-12-31")
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	_, err = d.GetRoleAssignment(ctx, "2031-05-11")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestPublicationState(t *testing.T) {
	d := getTestDB(t)
	ctx := context.Background()
	month := model.MonthKey{Year: 2031, Month: time.June}

	open, err := d.GetMonthOpen(ctx, month)
	require.NoError(t, err)
	assert.False(t, open)
	require.NoError(t, d.SetMonthOpen(ctx, month, true))
	open, err = d.GetMonthOpen(ctx, month)
	require.NoError(t, err)
	assert.True(t, open)

	rec, err := d.GetEnabledDates(ctx, month)
	require.NoError(t, err)
	assert.Nil(t, rec)
	require.NoError(t, d.SetEnabledDates(ctx, month, nil))
	rec, err = d.GetEnabledDates(ctx, month)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Empty(t, rec.Dates)

	require.NoError(t, d.SetAnnouncement(ctx, month, "# Welcome"))
	text, err := d.GetAnnouncement(ctx, month)
	require.NoError(t, err)
	assert.Equal(t, "# Welcome", text)

	require.NoError(t, d.SetPrayerText(ctx, "2031-06-01", 2, "second"))
	require.NoError(t, d.SetPrayerText(ctx, "2031-06-01", 2, "second, revised"))
	texts, err := d.ListPrayerTexts(ctx, "2031-06-01")
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, "second, revised", texts[0].Content)
}
