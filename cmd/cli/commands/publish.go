package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/bethel-serve/pkg/core/services"
)

// PublishScheduleCmd creates the publishSchedule command
func PublishScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishSchedule <yyyy-MM>",
		Short: "Write the month's schedule to its tab in the published spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(args[0])
			if err != nil {
				return err
			}

			published, err := services.PublishSchedule(app.Ctx, app.Database, app.Publisher(), app.Cfg, app.Logger, month)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Published %d date(s) to sheet %q\n", len(published.Rows), published.Month)
			return nil
		},
	}
}
