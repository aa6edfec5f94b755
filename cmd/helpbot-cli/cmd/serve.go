package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"helpbot/internal/adapters/webhook"
	"helpbot/internal/application/trigger"
	"helpbot/internal/bootstrap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep the knowledge base in sync with the board",
	Long: `Run the reconciliation controller, the periodic refresh timer and the
webhook callback server until interrupted. A run starts immediately and
every finished run is summarized on stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := GetServices()
		if svc.Controller == nil {
			return bootstrap.ErrRemoteNotConfigured
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := svc.Warm(ctx); err != nil {
			return err
		}

		addr := svc.Config.WebhookAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := webhook.NewServer(svc.Controller, svc.Remote, webhook.Options{
			Addr:       addr,
			ReadyColor: svc.Config.ReadyColor,
			Logger:     svc.Logger,
		})

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return svc.Controller.Run(ctx) })
		g.Go(func() error { return srv.ListenAndServe(ctx) })
		g.Go(func() error {
			svc.Controller.Schedule(ctx, svc.Config.RefreshInterval)
			return nil
		})
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case r := <-svc.Controller.Results():
					fmt.Fprintln(cmd.OutOrStdout(), r.Summary())
				}
			}
		})
		svc.Controller.Trigger(trigger.SourceStartup)

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "webhook listen address (defaults to the configured one)")
	rootCmd.AddCommand(serveCmd)
}
