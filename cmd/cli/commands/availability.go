package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/bethel-serve/pkg/core/services"
)

// SetAvailabilityCmd creates the setAvailability command
func SetAvailabilityCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setAvailability <yyyy-MM-dd> <name>",
		Short: "Record that a volunteer is available on a date (ignores whether the month is open)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unavailable, _ := cmd.Flags().GetBool("unavailable")

			id, err := services.FindVolunteerIDByName(app.Ctx, app.Database, args[1])
			if err != nil {
				return err
			}

			if err := services.SetAvailability(app.Ctx, app.Database, app.Logger, id, args[0], !unavailable); err != nil {
				return err
			}

			state := "available"
			if unavailable {
				state = "not available"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is %s on %s\n", args[1], state, args[0])
			return nil
		},
	}

	cmd.Flags().Bool("unavailable", false, "Clear the volunteer's availability instead")

	return cmd
}

// ViewApplicationsCmd creates the viewApplications command
func ViewApplicationsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewApplications <yyyy-MM>",
		Short: "Show who is available on each service date of a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(args[0])
			if err != nil {
				return err
			}

			result, err := services.GetMonthApplications(app.Ctx, app.Database, app.Cfg, app.Logger, month)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			state := "closed"
			if result.IsOpen {
				state = "open"
			}
			fmt.Fprintf(out, "\nApplications for %s (%s)\n\n", result.Month, state)
			for _, date := range result.Dates {
				names := make([]string, len(date.Volunteers))
				for i, v := range date.Volunteers {
					names[i] = v.Name
				}
				fmt.Fprintf(out, "%-16s %2d  %s\n", date.Label, len(names), strings.Join(names, ", "))
			}
			return nil
		},
	}
}
