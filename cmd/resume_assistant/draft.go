package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/observability"
)

var (
	draftShowJSON bool
	draftResetYes bool
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect or reset the in-progress workspace",
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current workspace",
	Args:  cobra.NoArgs,
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		snap := a.session.Workspace.Snapshot()
		out := cmd.OutOrStdout()
		if draftShowJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}

		if snap.IsEmpty() {
			fmt.Fprintln(out, "Workspace is empty")
			return nil
		}
		fmt.Fprintf(out, "Status: %s  Language: %s  Locked: %t\n", snap.Status, snap.Language, snap.Locked)
		fmt.Fprintf(out, "\nJob description:\n%s\n", snap.JobDescription)
		printer := observability.NewPrinter(out)
		printer.PrintTranscript(snap.ChatHistory)
		printer.PrintDocument(snap.GeneratedData)
		return nil
	}),
}

var draftResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the workspace and its saved draft (requires --yes)",
	Args:  cobra.NoArgs,
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		if _, err := a.session.Workspace.Reset(cmd.Context(), draftResetYes); err != nil {
			return fmt.Errorf("%w: pass --yes to discard the workspace", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Workspace cleared")
		return nil
	}),
}

func init() {
	draftShowCmd.Flags().BoolVar(&draftShowJSON, "json", false, "Print the workspace as JSON")
	draftResetCmd.Flags().BoolVar(&draftResetYes, "yes", false, "Confirm the reset")
	draftCmd.AddCommand(draftShowCmd, draftResetCmd)
	rootCmd.AddCommand(draftCmd)
}
