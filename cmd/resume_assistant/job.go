package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/ingestion"
)

var jobFile string

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Set the job description of the workspace",
}

var jobSetCmd = &cobra.Command{
	Use:   "set [text]",
	Short: "Set the job description from text or a file",
	Args:  cobra.ArbitraryArgs,
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		// Validate mutually exclusive inputs
		if jobFile == "" && len(args) == 0 {
			return fmt.Errorf("either text or --file must be provided")
		}
		if jobFile != "" && len(args) > 0 {
			return fmt.Errorf("text and --file are mutually exclusive; provide only one")
		}

		text := strings.Join(args, " ")
		if jobFile != "" {
			var err error
			if text, err = ingestion.FromFile(jobFile); err != nil {
				return fmt.Errorf("failed to read job description: %w", err)
			}
		}
		return setJobDescription(cmd, a, text)
	}),
}

var jobImportCmd = &cobra.Command{
	Use:   "import <url>",
	Short: "Fetch a job posting and use its text as the job description",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		res, err := ingestion.NewImporter(nil, a.logger).FromURL(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to import job posting: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d characters from %s (%s)\n", len(res.Text), res.URL, res.Platform)
		return setJobDescription(cmd, a, res.Text)
	}),
}

func init() {
	jobSetCmd.Flags().StringVarP(&jobFile, "file", "f", "", "Path to a text file containing the job description")
	jobCmd.AddCommand(jobSetCmd, jobImportCmd)
	rootCmd.AddCommand(jobCmd)
}

func setJobDescription(cmd *cobra.Command, a *app, text string) error {
	snap, err := a.session.Workspace.SetJobDescription(cmd.Context(), text)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Job description set (%d characters)\n", len(snap.JobDescription))
	return nil
}
