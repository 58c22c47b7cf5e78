package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inovacc/slackctl/internal/slack"
)

var (
	historyLimit  int
	historyOldest string
	historyLatest string
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history <channel>",
	Short: "Read messages from a channel",
	Long: `Read recent messages from a channel, newest first. The channel may be a
name (with or without #) or a literal ID.

User IDs in messages are resolved to display names on a best-effort basis;
a user lookup failure does not fail the command.

Examples:
  slackctl history general
  slackctl history "#general" --limit 50
  slackctl history C0123ABCD --json`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of messages")
	historyCmd.Flags().StringVar(&historyOldest, "oldest", "", "Only messages after this timestamp")
	historyCmd.Flags().StringVar(&historyLatest, "latest", "", "Only messages before this timestamp")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	channelID, err := client.ResolveChannelID(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	result, err := client.GetHistory(cmd.Context(), slack.HistoryOptions{
		Channel: channelID,
		Limit:   historyLimit,
		Oldest:  historyOldest,
		Latest:  historyLatest,
	})
	if err != nil {
		return err
	}

	if historyJSON {
		return printJSON(result.Messages)
	}

	printMessages(cmd, client, result.Messages)

	if result.HasMore {
		_, _ = fmt.Fprintln(os.Stdout, dimStyle.Render("More messages available; rerun with --latest or a larger --limit"))
	}

	return nil
}

var (
	threadLimit int
	threadJSON  bool
)

var threadCmd = &cobra.Command{
	Use:   "thread <channel> <timestamp>",
	Short: "Read a message thread",
	Long: `Read a thread's parent message and its replies, oldest first. The
timestamp is the thread parent's ts value as shown by history.

Examples:
  slackctl thread general 1700000000.000100
  slackctl thread C0123ABCD 1700000000.000100 --json`,
	Args: cobra.ExactArgs(2),
	RunE: runThread,
}

func init() {
	rootCmd.AddCommand(threadCmd)

	threadCmd.Flags().IntVar(&threadLimit, "limit", 100, "Maximum number of replies")
	threadCmd.Flags().BoolVar(&threadJSON, "json", false, "Output as JSON")
}

func runThread(cmd *cobra.Command, args []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	channelID, err := client.ResolveChannelID(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	result, err := client.GetReplies(cmd.Context(), slack.RepliesOptions{
		Channel:  channelID,
		ThreadTS: args[1],
		Limit:    threadLimit,
	})
	if err != nil {
		return err
	}

	if threadJSON {
		return printJSON(result.Messages)
	}

	printMessages(cmd, client, result.Messages)

	return nil
}

// printMessages renders messages with best-effort author names.
func printMessages(cmd *cobra.Command, client *slack.Client, messages []slack.Message) {
	userIDs := make([]string, 0, len(messages))
	for _, message := range messages {
		userIDs = append(userIDs, message.User)
	}

	users := client.GetUsersBestEffort(cmd.Context(), userIDs)

	for _, message := range messages {
		author := message.User
		if user, ok := users[message.User]; ok {
			author = displayName(user)
		}

		if author == "" && message.BotID != "" {
			author = message.BotID
		}

		line := fmt.Sprintf("%s %s  %s",
			dimStyle.Render(formatSlackTime(message.Timestamp)),
			boldStyle.Render(author),
			message.Text)

		if message.ReplyCount > 0 {
			line += " " + infoStyle.Render(fmt.Sprintf("(%d replies)", message.ReplyCount))
		}

		for _, reaction := range message.Reactions {
			line += " " + dimStyle.Render(fmt.Sprintf(":%s:%d", reaction.Name, reaction.Count))
		}

		_, _ = fmt.Fprintln(os.Stdout, line)

		for _, file := range message.Files {
			_, _ = fmt.Fprintf(os.Stdout, "  %s %s %s\n",
				dimStyle.Render("file:"), file.Name, dimStyle.Render(file.ID))
		}
	}
}
