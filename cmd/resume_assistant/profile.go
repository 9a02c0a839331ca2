package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/jonathan/resume-assistant/internal/workspace"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage profiles (master CV and cover letter)",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles; the active one is marked with *",
	Args:  cobra.NoArgs,
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		list, err := a.session.Profiles.List(cmd.Context())
		if err != nil {
			return err
		}
		active, err := a.session.Profiles.ActiveID(cmd.Context())
		if err != nil {
			return err
		}
		printProfiles(cmd, list, active)
		return nil
	}),
}

var profileCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a profile and make it active",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		p, err := a.session.CreateProfile(cmd.Context(), name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s (%s)\n", p.Name, p.ID)
		return nil
	}),
}

var profileRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a profile",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		return updateProfile(cmd, a, args[0], func(p *types.Profile) { p.Name = args[1] })
	}),
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile (the last profile is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		remaining, active, err := a.session.DeleteProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printProfiles(cmd, remaining, active)
		return nil
	}),
}

var profileUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a profile active",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.session.SelectProfile(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active profile: %s\n", args[0])
		return nil
	}),
}

var profileSetCVCmd = &cobra.Command{
	Use:   "set-cv <file>",
	Short: "Set the master CV of the active profile from a text file",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		return setActiveProfileText(cmd, a, args[0], func(p *types.Profile, text string) { p.CV = text })
	}),
}

var profileSetLetterCmd = &cobra.Command{
	Use:   "set-letter <file>",
	Short: "Set the master cover letter of the active profile from a text file",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
		return setActiveProfileText(cmd, a, args[0], func(p *types.Profile, text string) { p.Letter = text })
	}),
}

func init() {
	profileCmd.AddCommand(profileListCmd, profileCreateCmd, profileRenameCmd, profileDeleteCmd,
		profileUseCmd, profileSetCVCmd, profileSetLetterCmd)
	rootCmd.AddCommand(profileCmd)
}

func updateProfile(cmd *cobra.Command, a *app, id string, edit func(p *types.Profile)) error {
	p, err := a.session.Profiles.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: %s", workspace.ErrProfileNotFound, id)
	}
	edit(p)
	if err := a.session.Profiles.Update(cmd.Context(), *p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated profile %s\n", id)
	return nil
}

func setActiveProfileText(cmd *cobra.Command, a *app, path string, set func(p *types.Profile, text string)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := string(data)
	active, err := a.session.ActiveProfile(cmd.Context())
	if err != nil {
		return err
	}
	return updateProfile(cmd, a, active.ID, func(p *types.Profile) { set(p, text) })
}

func printProfiles(cmd *cobra.Command, list []types.Profile, activeID string) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tCV\tLETTER")
	for _, p := range list {
		mark := ""
		if p.ID == activeID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d chars\t%d chars\n", mark, p.ID, p.Name, len(p.CV), len(p.Letter))
	}
	_ = tw.Flush()
}
