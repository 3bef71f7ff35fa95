package commands

import "github.com/spf13/cobra"

// Register adds every command to the root command
func Register(root *cobra.Command, app *AppContext) {
	root.AddCommand(
		ServeCmd(app),
		MigrateCmd(app),
		AddVolunteerCmd(app),
		RenameVolunteerCmd(app),
		RemoveVolunteerCmd(app),
		ListVolunteersCmd(app),
		OpenMonthCmd(app),
		CloseMonthCmd(app),
		MonthStatusCmd(app),
		SetEnabledDatesCmd(app),
		SetAnnouncementCmd(app),
		SetAvailabilityCmd(app),
		ViewApplicationsCmd(app),
		AssignRolesCmd(app),
		ViewAssignmentCmd(app),
		SuggestRolesCmd(app),
		ViewScheduleCmd(app),
		TallyCmd(app),
		SetPrayerCmd(app),
		ViewPrayersCmd(app),
		PublishScheduleCmd(app),
		InteractiveCmd(),
	)
}
