package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reactRemove bool

var reactCmd = &cobra.Command{
	Use:   "react <channel> <timestamp> <emoji>",
	Short: "Add or remove a message reaction",
	Long: `Add an emoji reaction to a message, or remove one with --remove. The
emoji name may be given with or without colons.

Examples:
  slackctl react general 1700000000.000100 thumbsup
  slackctl react general 1700000000.000100 :tada:
  slackctl react general 1700000000.000100 thumbsup --remove`,
	Args: cobra.ExactArgs(3),
	RunE: runReact,
}

func init() {
	rootCmd.AddCommand(reactCmd)
	reactCmd.Flags().BoolVar(&reactRemove, "remove", false, "Remove the reaction instead of adding it")
}

func runReact(cmd *cobra.Command, args []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	channelID, err := client.ResolveChannelID(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if reactRemove {
		if err := client.RemoveReaction(cmd.Context(), channelID, args[1], args[2]); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(os.Stdout, "Reaction removed.")

		return nil
	}

	if err := client.AddReaction(cmd.Context(), channelID, args[1], args[2]); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, "Reaction added.")

	return nil
}
