package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"helpbot/internal/bootstrap"
	"helpbot/internal/config"
	"helpbot/internal/ports"
)

var (
	configPath string
	verbose    bool
	services   *bootstrap.Services
)

var rootCmd = &cobra.Command{
	Use:   "helpbot-cli",
	Short: "CLI for the Trello-backed support knowledge base",
	Long: `helpbot-cli mirrors a Trello support board into a local knowledge base
and answers questions from it.

It provides commands to sync the board, serve the webhook callback, ask
questions, browse categories and topics, and record votes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var logger ports.Logger
		if verbose {
			logger = bootstrap.NewLogger(os.Stderr)
		}
		svc, err := bootstrap.Load(cmd.Context(), configPath, logger)
		if err != nil {
			return err
		}
		services = svc
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if services == nil {
			return nil
		}
		return services.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.Path(), "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
}

// GetServices returns the initialized services
func GetServices() *bootstrap.Services {
	return services
}
