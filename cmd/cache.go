package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	cmd.AddCommand(newCachePurgeCmd(app))

	return cmd
}

func newCachePurgeCmd(app *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove expired cache entries (or everything with --all)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all {
				if err := app.responseCache.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
				return err
			}

			removed, err := app.responseCache.PurgeExpired(cmd.Context())
			if err != nil {
				return fmt.Errorf("purge cache: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries.\n", removed)
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every cache entry, fresh or not")

	return cmd
}
