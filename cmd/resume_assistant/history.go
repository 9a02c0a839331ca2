package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/jonathan/resume-assistant/internal/workspace"
)

var (
	historyListStatus  string
	historyPurgeYes    bool
	historyShowTrashed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage saved applications",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved applications, newest first",
	Args:  cobra.NoArgs,
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		apps, err := a.session.History.List(cmd.Context())
		if err != nil {
			return err
		}
		var filter types.ApplicationStatus
		if historyListStatus != "" {
			if filter, err = types.ParseStatus(historyListStatus); err != nil {
				return err
			}
		}

		shown := apps[:0:0]
		for _, app := range apps {
			switch {
			case filter != "" && app.Status != filter:
			case filter == "" && app.IsTrashed() && !historyShowTrashed:
			default:
				shown = append(shown, app)
			}
		}
		printApplications(cmd, shown)

		counts, err := a.session.History.Counts(cmd.Context())
		if err != nil {
			return err
		}
		parts := make([]string, 0, len(types.StatusTrack)+1)
		for _, st := range append(append([]types.ApplicationStatus{}, types.StatusTrack...), types.StatusTrash) {
			parts = append(parts, fmt.Sprintf("%s=%d", st, counts[st]))
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
		return nil
	}),
}

var historyMoveCmd = &cobra.Command{
	Use:   "move <id> <next|prev>",
	Short: "Move an application one step along the status track",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		apps, err := a.session.History.Move(cmd.Context(), args[0], types.Direction(args[1]))
		if err != nil {
			return err
		}
		return reportStatus(cmd, apps, args[0])
	}),
}

var historyStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Set the status of an application (todo, applied, interview, offer, rejected)",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		status, err := types.ParseStatus(args[1])
		if err != nil {
			return err
		}
		apps, err := a.session.History.SetStatus(cmd.Context(), args[0], status)
		if err != nil {
			return err
		}
		return reportStatus(cmd, apps, args[0])
	}),
}

var historyTrashCmd = &cobra.Command{
	Use:   "trash <id>",
	Short: "Move an application to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		apps, err := a.session.History.SoftDelete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return reportStatus(cmd, apps, args[0])
	}),
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a trashed application to todo",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		apps, err := a.session.History.Restore(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return reportStatus(cmd, apps, args[0])
	}),
}

var historyPurgeCmd = &cobra.Command{
	Use:   "purge <id>",
	Short: "Delete an application permanently (requires --yes)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		if !historyPurgeYes {
			return fmt.Errorf("%w: pass --yes to delete permanently", workspace.ErrConfirmationRequired)
		}
		if _, err := a.session.History.Purge(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Purged %s\n", args[0])
		return nil
	}),
}

var historyCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Purge trashed applications older than the trash TTL",
	Args:  cobra.NoArgs,
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		_, purged, err := a.session.History.CleanupTrash(cmd.Context())
		if err != nil {
			return err
		}
		// Opening the session already ran one cleanup.
		purged += a.session.PurgedOnOpen()
		fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired application(s)\n", purged)
		return nil
	}),
}

func init() {
	historyListCmd.Flags().StringVar(&historyListStatus, "status", "", "Only list applications with this status")
	historyListCmd.Flags().BoolVar(&historyShowTrashed, "all", false, "Include trashed applications")
	historyPurgeCmd.Flags().BoolVar(&historyPurgeYes, "yes", false, "Confirm permanent deletion")

	historyCmd.AddCommand(historyListCmd, historyMoveCmd, historyStatusCmd, historyTrashCmd,
		historyRestoreCmd, historyPurgeCmd, historyCleanupCmd)
	rootCmd.AddCommand(historyCmd)
}

func reportStatus(cmd *cobra.Command, apps []types.SavedApplication, id string) error {
	for _, app := range apps {
		if app.ID == id {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, app.Status)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", workspace.ErrApplicationNotFound, id)
}

func printApplications(cmd *cobra.Command, apps []types.SavedApplication) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tCOMPANY\tTITLE")
	for _, app := range apps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			app.ID,
			app.CreatedAt.Local().Format(time.DateTime),
			app.Status,
			app.GeneratedContent.Analysis.CompanyName,
			app.GeneratedContent.Analysis.JobTitle)
	}
	_ = tw.Flush()
}
