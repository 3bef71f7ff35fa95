package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/internal/config"
	"github.com/jakechorley/bethel-serve/pkg/clients/sheetsclient"
	"github.com/jakechorley/bethel-serve/pkg/core/services"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg *config.Config
	// SheetsClient is nil when publishing is not configured
	SheetsClient *sheetsclient.Client
	Database     db.Database
	Logger       *zap.Logger
	Ctx          context.Context
}

// Publisher returns the Sheets client as a services.SheetsClient, or nil when
// publishing is not configured
func (a *AppContext) Publisher() services.SheetsClient {
	if a.SheetsClient == nil {
		return nil
	}
	return a.SheetsClient
}

// Migrator is implemented by stores with a schema to migrate
type Migrator interface {
	RunMigrations(ctx context.Context) ([]string, error)
}
