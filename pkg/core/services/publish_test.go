package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/internal/config"
	"github.com/jakechorley/bethel-serve/pkg/clients/sheetsclient"
	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

// mockSheetsClient implements SheetsClient for testing
type mockSheetsClient struct {
	spreadsheetID string
	published     *sheetsclient.PublishedSchedule
	err           error
}

func (m *mockSheetsClient) PublishSchedule(ctx context.Context, spreadsheetID string, schedule *sheetsclient.PublishedSchedule) error {
	m.spreadsheetID = spreadsheetID
	m.published = schedule
	return m.err
}

func publishingConfig() *config.Config {
	cfg := testConfig()
	cfg.Sheets.SpreadsheetID = "sheet-123"
	cfg.Sheets.CredentialsPath = "sa.json"
	return cfg
}

func TestPublishSchedule(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	ids := seedVolunteers(t, store, "A", "B", "C", "D", "E", "F", "G")
	a := fullAssignment(ids).With(model.SlotCommentary, []string{ids[0], ids[6]})
	_, err := store.SaveRoleAssignment(ctx, "2025-03-16", a, nil)
	require.NoError(t, err)

	client := &mockSheetsClient{}
	published, err := PublishSchedule(ctx, store, client, publishingConfig(), zap.NewNop(), march2025)
	require.NoError(t, err)

	assert.Equal(t, "sheet-123", client.spreadsheetID)
	assert.Same(t, published, client.published)
	assert.Equal(t, "2025-03", published.Month)
	require.Len(t, published.Rows, 5)

	row := published.Rows[2]
	assert.Equal(t, "2025-03-16", row.Date)
	assert.Equal(t, "Mar 16 (Sun)", row.Day)
	assert.Equal(t, "A, G", row.Commentary)
	assert.Equal(t, "B", row.Reading1)
	assert.Equal(t, "C", row.Reading2)
	assert.Equal(t, [4]string{"D", "E", "F", "G"}, row.Prayers)

	assert.Equal(t, "", published.Rows[0].Commentary)
}

func TestPublishSchedule_Disabled(t *testing.T) {
	_, err := PublishSchedule(context.Background(), newStore(), &mockSheetsClient{}, testConfig(), zap.NewNop(), march2025)
	assert.ErrorIs(t, err, ErrPublishingDisabled)
}

func TestPublishSchedule_ClientError(t *testing.T) {
	client := &mockSheetsClient{err: errors.New("quota exceeded")}

	_, err := PublishSchedule(context.Background(), newStore(), client, publishingConfig(), zap.NewNop(), march2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish schedule")
}
