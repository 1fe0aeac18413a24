package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	presenceadapter "github.com/whosinhq/whosin/internal/adapters/render/presence"
	"github.com/whosinhq/whosin/internal/domain"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool
	var showHidden bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Ingest calendars and show who works where this week",
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
				return enc.Encode(snapshot)
			}

			rendered, err := app.renderSnapshot(snapshot, presenceadapter.RenderOptions{ShowHidden: showHidden})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&showHidden, "all", false, "Include hidden people")

	return cmd
}
