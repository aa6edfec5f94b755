package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"helpbot/internal/application/trigger"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the board into the local store once",
	Long: `Fetch the board's lists and ready cards, apply the changes to the
local store and rebuild the index. The run summary is printed even when a
phase fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := GetServices().Sync(cmd.Context(), trigger.SourceOperator)
		if !report.Started.IsZero() {
			fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
