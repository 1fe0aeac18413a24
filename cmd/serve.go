package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/whosinhq/whosin/internal/api"
	"github.com/whosinhq/whosin/internal/application"
)

// serve keeps a snapshot warm on a cron schedule and exposes it over a JSON
// API; a frontend polls this instead of the rate-limited upstream.
func newServeCmd(app *app) *cobra.Command {
	var listen string
	var refreshCron string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the presence snapshot as a JSON API with scheduled refresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen == "" {
				listen = app.cfg.GetString("serve.listen")
			}
			if refreshCron == "" {
				refreshCron = app.cfg.GetString("serve.refresh_cron")
			}

			holder := &application.SnapshotHolder{}

			refresh := func(ctx context.Context) error {
				snapshot, err := app.ingestor.Run(ctx)
				if err != nil {
					return err
				}
				holder.Set(snapshot)
				return nil
			}

			if err := refresh(cmd.Context()); err != nil {
				// Keep serving: the schedule retries, and /api/refresh can
				// force a pass once the operator fixed the cause.
				slog.Warn("initial ingestion pass failed", "err", err)
			}

			scheduler := cron.New()
			if _, err := scheduler.AddFunc(refreshCron, func() {
				if err := refresh(context.Background()); err != nil {
					slog.Warn("scheduled ingestion pass failed", "err", err)
				}
			}); err != nil {
				return fmt.Errorf("invalid refresh schedule %q: %w", refreshCron, err)
			}
			scheduler.Start()
			defer scheduler.Stop()

			router := api.NewRouter(holder, app.settingsService, func(c *gin.Context) error {
				return refresh(c.Request.Context())
			})

			slog.Info("serving presence API", "listen", listen, "refresh", refreshCron)
			return router.Run(listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&refreshCron, "refresh", "", "Cron schedule for ingestion (default from config)")

	return cmd
}
