package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"helpbot/internal/application/vote"
	"helpbot/internal/domain"
)

var retractVote bool

var voteCmd = &cobra.Command{
	Use:   "vote <short-id> <up|down>",
	Short: "Record or retract a vote on an answer",
	Long: `Record a vote on the card whose short id appears in an answer footer.

Examples:
  helpbot-cli vote Xy12Ab up
  helpbot-cli vote Xy12Ab down --retract`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := domain.ParseVoteDirection(args[1])
		if err != nil {
			return err
		}
		svc := GetServices()
		if err := svc.Warm(cmd.Context()); err != nil {
			return err
		}
		card, err := svc.Reactions.Vote(cmd.Context(), args[0], dir, retractVote)
		if err != nil {
			return fmt.Errorf("vote on %s: %w", args[0], err)
		}

		verb := "Recorded"
		if retractVote {
			verb = "Retracted"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s vote on %q (%s)\n", verb, dir, card.Question, vote.Tally(card))
		return nil
	},
}

func init() {
	voteCmd.Flags().BoolVar(&retractVote, "retract", false, "remove a previously recorded vote")
	rootCmd.AddCommand(voteCmd)
}
