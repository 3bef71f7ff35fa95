package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/core/roles"
	"github.com/jakechorley/bethel-serve/pkg/core/services"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

// slotFlags maps each role slot to its command line flag
var slotFlags = map[model.RoleSlot]string{
	model.SlotCommentary: "commentary",
	model.SlotReading1:   "reading1",
	model.SlotReading2:   "reading2",
	model.SlotPrayer1:    "prayer1",
	model.SlotPrayer2:    "prayer2",
	model.SlotPrayer3:    "prayer3",
	model.SlotPrayer4:    "prayer4",
}

// buildAssignment resolves volunteer names and applies them slot by slot with
// the same toggle rules as the API, so conflicts and capacity are reported
// before anything is saved
func buildAssignment(ctx context.Context, store db.VolunteerStore, names map[model.RoleSlot][]string) (model.Assignment, error) {
	assignment := model.Assignment{}.Clone()
	for _, slot := range model.AllSlots {
		for _, name := range names[slot] {
			id, err := services.FindVolunteerIDByName(ctx, store, name)
			if err != nil {
				return model.Assignment{}, fmt.Errorf("%s: %w", slot.Label(), err)
			}
			if assignment.Contains(slot, id) {
				continue
			}
			assignment, err = roles.Toggle(assignment, slot, id)
			if err != nil {
				return model.Assignment{}, fmt.Errorf("%s (%s): %w", slot.Label(), name, err)
			}
		}
	}
	return assignment, nil
}

// AssignRolesCmd creates the assignRoles command
func AssignRolesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignRoles <yyyy-MM-dd>",
		Short: "Save the role assignment for a date (every slot must be filled)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]

			names := make(map[model.RoleSlot][]string, len(slotFlags))
			for slot, flag := range slotFlags {
				values, _ := cmd.Flags().GetStringArray(flag)
				names[slot] = values
			}

			assignment, err := buildAssignment(app.Ctx, app.Database, names)
			if err != nil {
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			var expected *int
			if !force {
				current, err := services.LoadAssignment(app.Ctx, app.Database, app.Logger, date)
				if err != nil {
					return err
				}
				expected = &current.Version
			}

			app.Logger.Debug("assignRoles command", zap.String("date", date), zap.Bool("force", force))

			result, err := services.SaveAssignment(app.Ctx, app.Database, app.Logger, date, assignment, expected)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Roles for %s saved (version %d)\n\n", date, result.Version)
			return printSummary(app, out, date)
		},
	}

	for _, slot := range model.AllSlots {
		cmd.Flags().StringArray(slotFlags[slot], nil, fmt.Sprintf("Volunteer name for %s; repeat the flag for more than one", slot.Label()))
	}
	cmd.Flags().Bool("force", false, "Overwrite the stored assignment without a version check")

	return cmd
}

func printSummary(app *AppContext, out io.Writer, date string) error {
	summary, err := services.DateSummary(app.Ctx, app.Database, app.Cfg, app.Logger, date)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, summary)
	return nil
}

// ViewAssignmentCmd creates the viewAssignment command
func ViewAssignmentCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewAssignment <yyyy-MM-dd>",
		Short: "Show a date's roles and the available volunteers ranked by how often they served this year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			out := cmd.OutOrStdout()

			loaded, err := services.LoadAssignment(app.Ctx, app.Database, app.Logger, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nRoles for %s (version %d)\n\n", date, loaded.Version)
			if err := printSummary(app, out, date); err != nil {
				return err
			}

			candidates, err := services.AssignmentCandidates(app.Ctx, app.Database, app.Cfg, app.Logger, date)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\nAvailable volunteers (%d services so far)\n", candidates.Year)
			for _, category := range []model.RoleCategory{model.CategoryCommentary, model.CategoryReading, model.CategoryPrayer} {
				ranked := candidates.Ranked[category]
				entries := make([]string, len(ranked))
				for i, c := range ranked {
					entries[i] = fmt.Sprintf("%s (%d)", c.Name, c.Tally.Count(category))
				}
				fmt.Fprintf(out, "  %-12s %s\n", category, strings.Join(entries, ", "))
			}
			return nil
		},
	}
}

// ViewScheduleCmd creates the viewSchedule command
func ViewScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewSchedule <yyyy-MM>",
		Short: "Show the month's schedule table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(args[0])
			if err != nil {
				return err
			}

			schedule, err := services.MonthSchedule(app.Ctx, app.Database, app.Cfg, app.Logger, month)
			if err != nil {
				return err
			}

			printSchedule(cmd.OutOrStdout(), schedule)
			return nil
		},
	}
}

func printSchedule(out io.Writer, schedule *services.MonthScheduleResult) {
	fmt.Fprintf(out, "\nSchedule for %s\n\n", schedule.Month)
	fmt.Fprintf(out, "%-16s %-24s %-24s %s\n", "Date", "Commentary", "Readers", "Prayers")
	fmt.Fprintln(out, strings.Repeat("-", 90))
	for _, row := range schedule.Rows {
		marker := ""
		if !row.Complete {
			marker = " *"
		}
		fmt.Fprintf(out, "%-16s %-24s %-24s %s%s\n",
			row.Label,
			strings.Join(row.Commentary, ", "),
			strings.Join(row.Readers, ", "),
			strings.Join(row.PrayerReaders, ", "),
			marker)
	}
	fmt.Fprintln(out, "\n* roles not yet complete")
}

// TallyCmd creates the tally command
func TallyCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tally <year>",
		Short: "Show how often each volunteer served per role category in a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil || year < 1 {
				return fmt.Errorf("year must be a positive integer, got: %s", args[0])
			}

			tallies, err := services.VolunteerTallies(app.Ctx, app.Database, app.Cfg, year)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%-20s %10s %8s %7s %6s\n", fmt.Sprintf("Tally %d", year), "Commentary", "Reading", "Prayer", "Total")
			for _, c := range tallies {
				fmt.Fprintf(out, "%-20s %10d %8d %7d %6d\n", c.Name, c.Tally.Commentary, c.Tally.Reading, c.Tally.Prayer, c.Tally.Total())
			}
			return nil
		},
	}
}

// SuggestRolesCmd creates the suggestRoles command
func SuggestRolesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "suggestRoles <yyyy-MM-dd>",
		Short: "Propose volunteers for a date's empty roles (nothing is saved)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]

			result, err := services.SuggestAssignment(app.Ctx, app.Database, app.Cfg, app.Logger, date)
			if err != nil {
				return err
			}

			volunteers, err := services.ListVolunteers(app.Ctx, app.Database, app.Logger, app.Cfg.Calendar.Locale)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(volunteers))
			for _, v := range volunteers {
				names[v.ID] = v.Name
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nSuggested roles for %s\n\n", date)
			fmt.Fprintln(out, services.ScheduleSummary(result.Assignment, names, app.Cfg.Calendar.Locale))

			if len(result.Unfilled) > 0 {
				labels := make([]string, len(result.Unfilled))
				for i, slot := range result.Unfilled {
					labels[i] = slot.Label()
				}
				fmt.Fprintf(out, "\nNo available volunteer for: %s\n", strings.Join(labels, ", "))
				return nil
			}

			// a complete suggestion can be saved as-is
			parts := []string{"assignRoles", date}
			for _, slot := range model.AllSlots {
				for _, id := range result.Assignment.Get(slot) {
					parts = append(parts, "--"+slotFlags[slot], strconv.Quote(names[id]))
				}
			}
			fmt.Fprintf(out, "\nTo save:\n  %s\n", strings.Join(parts, " "))
			return nil
		},
	}
}
