package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whosinhq/whosin/internal/domain"
)

func newPrefsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage preferences",
	}

	cmd.AddCommand(newPrefsLocationCmd(app))

	return cmd
}

func newPrefsLocationCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "location <officeLocation|homeOffice|unknown>",
		Short: "Set the assumed location for days without an explicit event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := parseLocationArg(args[0])
			if err != nil {
				return err
			}
			if _, err := app.settingsService.SetPreferredLocation(cmd.Context(), location); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Assumed location set to %s.\n", location)
			return err
		},
	}
}

func parseLocationArg(raw string) (domain.Location, error) {
	switch location := domain.Location(raw); location {
	case domain.LocationOffice, domain.LocationHome, domain.LocationUnknown:
		return location, nil
	default:
		return "", fmt.Errorf("unsupported location %q (use officeLocation, homeOffice or unknown)", raw)
	}
}
