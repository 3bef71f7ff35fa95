package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/bethel-serve/pkg/core/services"
)

// SetPrayerCmd creates the setPrayer command
func SetPrayerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setPrayer <yyyy-MM-dd> <slot 1-4> <text>",
		Short: "Save the text of a universal prayer slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("slot must be a number between 1 and 4, got: %s", args[1])
			}

			text, err := services.SetPrayerText(app.Ctx, app.Database, app.Logger, args[0], number, args[2])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Prayer %d for %s saved (%d characters)\n", number, args[0], len([]rune(text)))
			return nil
		},
	}
}

// ViewPrayersCmd creates the viewPrayers command
func ViewPrayersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewPrayers <yyyy-MM-dd>",
		Short: "Show the universal prayer texts of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := services.GetPrayerTexts(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nUniversal prayers for %s\n", texts.Date)
			for _, slot := range texts.Slots {
				content := slot.Content
				if content == "" {
					content = "(empty)"
				}
				readers := "unassigned"
				if len(slot.Readers) > 0 {
					readers = strings.Join(slot.Readers, ", ")
				}
				fmt.Fprintf(out, "\n%d. [%s] %s\n", slot.Slot, readers, content)
			}
			return nil
		},
	}
}
