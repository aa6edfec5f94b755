package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"helpbot/internal/domain"
)

// printReply loads the stored knowledge base and prints what reply returns
func printReply(cmd *cobra.Command, reply func() domain.Reply) error {
	if err := GetServices().Warm(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply().String())
	return nil
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer the closest known question",
	Long: `Rank the stored questions against the given text and print the best
answer.

Examples:
  helpbot-cli ask how do I reset my password
  helpbot-cli ask "where is my invoice"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printReply(cmd, func() domain.Reply {
			return GetServices().Handler.Ask(strings.Join(args, " "))
		})
	},
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "List the support categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printReply(cmd, GetServices().Handler.Lists)
	},
}

var listCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "List the questions in a category",
	Long: `List the questions in a category. Category names match
case-insensitively.

Examples:
  helpbot-cli list billing
  helpbot-cli list "account & login"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printReply(cmd, func() domain.Reply {
			return GetServices().Handler.List(strings.Join(args, " "))
		})
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the most helpful answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printReply(cmd, func() domain.Reply {
			return GetServices().Handler.Top(cmd.Context())
		})
	},
}

var topicCmd = &cobra.Command{
	Use:   "topic <name>",
	Short: "Show a support topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printReply(cmd, func() domain.Reply {
			return GetServices().Handler.Topic(strings.Join(args, " "))
		})
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(topicCmd)
}
