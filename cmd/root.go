package cmd

import (
	"github.com/spf13/cobra"

	"github.com/whosinhq/whosin/internal/logger"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var logLevel string

	app, wireErr := wireApp()

	rootCmd := &cobra.Command{
		Use:           "whosin",
		Short:         "whosin: who is in the office, and which rooms are free",
		Long:          "whosin ingests team calendars and room bookings, folds them into a per-person per-day location view, and keeps upstream traffic low with a local TTL cache.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.Setup(logLevel)
			if app != nil {
				app.purgeExpiredCache(cmd.Context())
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")

	if wireErr != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return wireErr
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newRoomsCmd(app),
		newPeopleCmd(app),
		newPrefsCmd(app),
		newCacheCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}
