package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/bethel-serve/pkg/core/services"
)

// AddVolunteerCmd creates the addVolunteer command
func AddVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addVolunteer <name>",
		Short: "Add a volunteer to the directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteer, err := services.AddVolunteer(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s (%s)\n", volunteer.Name, volunteer.ID)
			return nil
		},
	}
}

// RenameVolunteerCmd creates the renameVolunteer command
func RenameVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "renameVolunteer <current_name> <new_name>",
		Short: "Rename a volunteer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.FindVolunteerIDByName(app.Ctx, app.Database, args[0])
			if err != nil {
				return err
			}

			volunteer, err := services.RenameVolunteer(app.Ctx, app.Database, app.Logger, id, args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Renamed %s to %s\n", args[0], volunteer.Name)
			return nil
		},
	}
}

// RemoveVolunteerCmd creates the removeVolunteer command
func RemoveVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeVolunteer <name>",
		Short: "Remove a volunteer and their availability (role assignments are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.FindVolunteerIDByName(app.Ctx, app.Database, args[0])
			if err != nil {
				return err
			}

			result, err := services.RemoveVolunteer(app.Ctx, app.Database, app.Logger, id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s and %d availability record(s)\n", args[0], result.AvailabilityRemoved)
			return nil
		},
	}
}

// ListVolunteersCmd creates the listVolunteers command
func ListVolunteersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listVolunteers",
		Short: "List all volunteers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteers, err := services.ListVolunteers(app.Ctx, app.Database, app.Logger, app.Cfg.Calendar.Locale)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d volunteers:\n\n", len(volunteers))
			for _, v := range volunteers {
				fmt.Fprintf(out, "- %s (%s)\n", v.Name, v.ID)
			}
			return nil
		},
	}
}
