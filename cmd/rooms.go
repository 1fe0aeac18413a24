package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whosinhq/whosin/internal/domain"
)

func newRoomsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Show bookable rooms, capacities and bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := app.ingestor.Run(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrReauthRequired) {
					return fmt.Errorf("%w: run `whosin login` and retry", domain.ErrReauthRequired)
				}
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snapshot.Rooms)
			}

			rendered, err := app.renderRooms(snapshot.Rooms)
			if err != nil {
				return fmt.Errorf("render rooms: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
