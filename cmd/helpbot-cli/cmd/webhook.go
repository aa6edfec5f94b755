package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"helpbot/internal/bootstrap"
)

var (
	callbackURL        string
	webhookDescription string
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage the board webhook",
}

var webhookRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Ask Trello to post board actions to the callback URL",
	Long: `Register a webhook on the configured board. Trello probes the callback
with a HEAD request first, so "helpbot-cli serve" must already be reachable
at the URL.

Examples:
  helpbot-cli webhook register --callback https://bot.example.com/ping`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := GetServices()
		if svc.Remote == nil {
			return bootstrap.ErrRemoteNotConfigured
		}
		hook, err := svc.Remote.RegisterWebhook(cmd.Context(), svc.Config.Trello.Board, callbackURL, webhookDescription)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered webhook %s for board %s -> %s\n", hook.ID, hook.IDModel, hook.CallbackURL)
		return nil
	},
}

func init() {
	webhookRegisterCmd.Flags().StringVar(&callbackURL, "callback", "", "public URL of the /ping endpoint")
	webhookRegisterCmd.Flags().StringVar(&webhookDescription, "description", "helpbot board webhook", "webhook description")
	_ = webhookRegisterCmd.MarkFlagRequired("callback")

	webhookCmd.AddCommand(webhookRegisterCmd)
	rootCmd.AddCommand(webhookCmd)
}
