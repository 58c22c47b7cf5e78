package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inovacc/slackctl/internal/slack"
)

var sendThreadTS string

var sendCmd = &cobra.Command{
	Use:   "send <channel> <text>",
	Short: "Send a message to a channel",
	Long: `Send a message to a channel. Use --thread to reply inside an existing
thread instead of starting a new top-level message.

Examples:
  slackctl send general "deploy finished"
  slackctl send "#ops" "ack" --thread 1700000000.000100`,
	Args: cobra.ExactArgs(2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVar(&sendThreadTS, "thread", "", "Thread parent timestamp to reply to")
}

func runSend(cmd *cobra.Command, args []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	channelID, err := client.ResolveChannelID(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	result, err := client.PostMessage(cmd.Context(), slack.PostMessageOptions{
		Channel:  channelID,
		Text:     args[1],
		ThreadTS: sendThreadTS,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Sent to %s at %s\n", result.Channel, result.Timestamp)

	return nil
}

var dmCmd = &cobra.Command{
	Use:   "dm <user-id> <text>",
	Short: "Send a direct message to a user",
	Long: `Open (or reuse) a direct message conversation with a user and send a
message into it.

Examples:
  slackctl dm U0123ABCD "lunch?"`,
	Args: cobra.ExactArgs(2),
	RunE: runDM,
}

func init() {
	rootCmd.AddCommand(dmCmd)
}

func runDM(cmd *cobra.Command, args []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	channelID, err := client.OpenDM(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	result, err := client.PostMessage(cmd.Context(), slack.PostMessageOptions{
		Channel: channelID,
		Text:    args[1],
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Sent to %s at %s\n", result.Channel, result.Timestamp)

	return nil
}
