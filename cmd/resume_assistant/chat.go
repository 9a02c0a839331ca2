package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/observability"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/jonathan/resume-assistant/internal/workspace"
)

var chatSave bool

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send one chat message and apply the generated document",
	Long: `Send one chat message to the generator. The first message creates the CV and
cover letter from the job description and the active profile; later messages
refine the current document. The job description is locked after the first
message.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(true, runChat),
}

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Change the layout, color or font of the current document",
	Args:  cobra.NoArgs,
	RunE:  withApp(false, runDesign),
}

var (
	designLayout string
	designColor  string
	designFont   string
)

func init() {
	chatCmd.Flags().BoolVar(&chatSave, "save", false, "Save the resulting document to the history")
	designCmd.Flags().StringVar(&designLayout, "layout", "", "modern, classic or minimal")
	designCmd.Flags().StringVar(&designColor, "color", "", "blue, emerald, slate, rose or amber")
	designCmd.Flags().StringVar(&designFont, "font", "", "sans, serif or mono")
	rootCmd.AddCommand(chatCmd, designCmd)
}

func runChat(cmd *cobra.Command, args []string, a *app) error {
	ws := a.session.Workspace
	if strings.TrimSpace(ws.Snapshot().JobDescription) == "" {
		return fmt.Errorf("set a job description first with 'job set' or 'job import'")
	}

	snap, err := ws.Send(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if n := len(snap.ChatHistory); n > 0 && snap.ChatHistory[n-1].Role == types.RoleAI {
		fmt.Fprintln(out, snap.ChatHistory[n-1].Text)
	}
	if snap.Status == workspace.StatusError {
		return fmt.Errorf("generation failed")
	}
	printDocumentSummary(cmd, snap.GeneratedData)

	if chatSave {
		app, _, err := ws.SaveToHistory(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved application %s\n", app.ID)
	}
	return nil
}

func runDesign(cmd *cobra.Command, _ []string, a *app) error {
	snap := a.session.Workspace.Snapshot()
	if snap.GeneratedData == nil {
		return workspace.ErrNoArtifact
	}

	design := snap.GeneratedData.Design
	design.Rationale = ""
	if designLayout != "" {
		design.Layout = designLayout
	}
	if designColor != "" {
		design.Color = designColor
	}
	if designFont != "" {
		design.Font = designFont
	}

	snap, err := a.session.Workspace.ApplyDesignPatch(cmd.Context(), design)
	if err != nil {
		return err
	}
	d := snap.GeneratedData.Design
	fmt.Fprintf(cmd.OutOrStdout(), "Design: layout=%s color=%s font=%s\n", d.Layout, d.Color, d.Font)
	return nil
}

func printDocumentSummary(cmd *cobra.Command, doc *types.GeneratedContent) {
	observability.NewPrinter(cmd.OutOrStdout()).PrintDocument(doc)
}
