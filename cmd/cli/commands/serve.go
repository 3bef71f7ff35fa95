package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/bethel-serve/pkg/server"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.New(server.Options{
				Config: app.Cfg,
				Store:  app.Database,
				Sheets: app.Publisher(),
				Logger: app.Logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(srv.Start)
			g.Go(func() error {
				<-gctx.Done()
				app.Logger.Info("Shutting down HTTP server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					app.Logger.Error("Failed to shut down cleanly", zap.Error(err))
					return err
				}
				return nil
			})

			return g.Wait()
		},
	}
}

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, ok := app.Database.(Migrator)
			if !ok {
				return fmt.Errorf("storage driver %q has no migrations", app.Cfg.Storage.Driver)
			}

			applied, err := migrator.RunMigrations(app.Ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "Database is up to date.")
				return nil
			}
			fmt.Fprintf(out, "\n✓ Applied %d migration(s):\n", len(applied))
			for _, name := range applied {
				fmt.Fprintf(out, "  - %s\n", name)
			}
			return nil
		},
	}
}
