package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/internal/config"
	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/db"
	"github.com/jakechorley/bethel-serve/pkg/memstore"
)

var march2025 = model.MonthKey{Year: 2025, Month: 3}

func testConfig() *config.Config {
	return &config.Config{
		Storage:  config.StorageConfig{Driver: "memory"},
		Calendar: config.CalendarConfig{Locale: "en", ServiceDays: "FREQ=WEEKLY;BYDAY=SU"},
	}
}

// seedVolunteers adds volunteers by name and returns their ids in order
func seedVolunteers(t *testing.T, store db.VolunteerStore, names ...string) []string {
	t.Helper()
	ids := make([]string, len(names))
	for i, name := range names {
		v, err := AddVolunteer(context.Background(), store, zap.NewNop(), name)
		require.NoError(t, err)
		ids[i] = v.ID
	}
	return ids
}

// fullAssignment fills every slot with a distinct volunteer from ids (at least 7)
func fullAssignment(ids []string) model.Assignment {
	return model.Assignment{
		Commentary: []string{ids[0]},
		Reading1:   []string{ids[1]},
		Reading2:   []string{ids[2]},
		Prayer1:    []string{ids[3]},
		Prayer2:    []string{ids[4]},
		Prayer3:    []string{ids[5]},
		Prayer4:    []string{ids[6]},
	}
}

func newStore() *memstore.Store {
	return memstore.New()
}
