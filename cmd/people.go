package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPeopleCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "Manage which people the presence view shows",
	}

	cmd.AddCommand(newPeopleHideCmd(app), newPeopleShowCmd(app), newPeopleListHiddenCmd(app))

	return cmd
}

func newPeopleHideCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hide <email>",
		Short: "Hide a person from the presence view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.settingsService.SetVisibility(cmd.Context(), args[0], false); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s hidden.\n", args[0])
			return err
		},
	}
}

func newPeopleShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <email>",
		Short: "Show a previously hidden person again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.settingsService.SetVisibility(cmd.Context(), args[0], true); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s visible.\n", args[0])
			return err
		},
	}
}

func newPeopleListHiddenCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hidden",
		Short: "List hidden people",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settingsService.Current(cmd.Context())
			if err != nil {
				return err
			}
			if len(settings.HiddenPeople) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No hidden people.")
				return err
			}
			for _, email := range settings.HiddenPeople {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), email); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
