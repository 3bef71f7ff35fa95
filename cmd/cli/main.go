package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/cmd/cli/commands"
	"github.com/jakechorley/bethel-serve/internal/config"
	"github.com/jakechorley/bethel-serve/pkg/clients/sheetsclient"
	"github.com/jakechorley/bethel-serve/pkg/memstore"
	"github.com/jakechorley/bethel-serve/pkg/postgres"
	"github.com/jakechorley/bethel-serve/pkg/utils/logging"
)

var (
	env     string
	logDir  string
	verbose bool
	app     = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bethel",
		Short: "Bethel Serve - schedule liturgical volunteers",
		Long:  `Manage volunteers, their availability and the liturgical roles assigned to them, and serve the JSON API.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: dev, prod, etc.)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", logging.DefaultDir, "Directory for log files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.MarkPersistentFlagRequired("env")

	commands.Register(rootCmd, app)

	if err := rootCmd.Execute(); err != nil {
		closeApp()
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and the optional sheets client
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, _, err = logging.InitLogger(env, logDir, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("storage", app.Cfg.Storage.Driver),
		zap.String("locale", app.Cfg.Calendar.Locale))

	switch app.Cfg.Storage.Driver {
	case "memory":
		app.Logger.Warn("Using in-memory storage; data is lost on exit")
		app.Database = memstore.New()
	default:
		app.Logger.Info("Connecting to database")
		database, err := postgres.NewDB(app.Ctx, app.Cfg.Storage.DatabaseURL, app.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.Database = database
		app.Logger.Debug("Database connected successfully")
	}

	if app.Cfg.PublishingEnabled() {
		app.Logger.Info("Initializing sheets client")
		client, err := sheetsclient.NewClient(app.Ctx, app.Cfg.Sheets.CredentialsPath)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		if err := client.CheckAccess(app.Ctx); err != nil {
			return fmt.Errorf("sheets credentials rejected: %w", err)
		}
		app.SheetsClient = client
		app.Logger.Debug("Sheets client initialized successfully")
	}

	return nil
}

func closeApp() {
	if app.Database != nil {
		app.Database.Close()
		app.Database = nil
	}
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
}
