package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/core/services"
)

func monthArg(arg string) (model.MonthKey, error) {
	month, err := model.ParseMonthKey(arg)
	if err != nil {
		return model.MonthKey{}, fmt.Errorf("month must be yyyy-MM: %w", err)
	}
	return month, nil
}

func setMonthOpenCmd(app *AppContext, use, short string, open bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <yyyy-MM>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(args[0])
			if err != nil {
				return err
			}

			if err := services.SetMonthOpen(app.Ctx, app.Database, app.Logger, month, open); err != nil {
				return err
			}

			state := "closed"
			if open {
				state = "open"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is now %s\n", month, state)
			return nil
		},
	}
}

// OpenMonthCmd creates the openMonth command
func OpenMonthCmd(app *AppContext) *cobra.Command {
	return setMonthOpenCmd(app, "openMonth", "Open a month so volunteers can declare availability", true)
}

// CloseMonthCmd creates the closeMonth command
func CloseMonthCmd(app *AppContext) *cobra.Command {
	return setMonthOpenCmd(app, "closeMonth", "Close a month so roles can be assigned", false)
}

// MonthStatusCmd creates the monthStatus command
func MonthStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "monthStatus <yyyy-MM>",
		Short: "Show whether a month is open and its service dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(args[0])
			if err != nil {
				return err
			}

			status, err := services.GetMonthStatus(app.Ctx, app.Database, app.Cfg, month)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			state := "closed"
			if status.IsOpen {
				state = "open"
			}
			source := "custom"
			if status.IsDefault {
				source = "default"
			}
			fmt.Fprintf(out, "\n%s is %s\n\nService dates (%s):\n", status.Month, state, source)
			for _, day := range status.EnabledDates {
				fmt.Fprintf(out, "  %s  %s\n", day.DateString, day.Display)
			}
			if len(status.EnabledDates) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			return nil
		},
	}
}

// SetEnabledDatesCmd creates the setEnabledDates command
func SetEnabledDatesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setEnabledDates <yyyy-MM> [yyyy-MM-dd...]",
		Short: "Replace a month's service dates (no dates disables the month)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(args[0])
			if err != nil {
				return err
			}

			dates, err := services.SetEnabledDates(app.Ctx, app.Database, app.Logger, month, args[1:])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s has %d service date(s): %s\n", month, len(dates), strings.Join(dates, ", "))
			return nil
		},
	}
}

// SetAnnouncementCmd creates the setAnnouncement command
func SetAnnouncementCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setAnnouncement <yyyy-MM> [text]",
		Short: "Replace a month's announcement (markdown), from text or --file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(args[0])
			if err != nil {
				return err
			}

			file, _ := cmd.Flags().GetString("file")
			var content string
			switch {
			case file != "" && len(args) > 1:
				return fmt.Errorf("give either text or --file, not both")
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read announcement file: %w", err)
				}
				content = string(data)
			case len(args) > 1:
				content = args[1]
			}

			app.Logger.Debug("setAnnouncement command", zap.String("month", month.String()), zap.String("file", file))

			if err := services.SetAnnouncement(app.Ctx, app.Database, app.Logger, month, content); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Announcement for %s updated (%d characters)\n", month, len([]rune(content)))
			return nil
		},
	}

	cmd.Flags().String("file", "", "Read the announcement from a markdown file")

	return cmd
}
