package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inovacc/slackctl/internal/slack"
)

var (
	channelsTypes    string
	channelsLimit    int
	channelsAll      bool
	channelsArchived bool
	channelsJSON     bool
)

var channelsCmd = &cobra.Command{
	Use:     "channels",
	Aliases: []string{"conversations"},
	Short:   "List channels in the workspace",
	Long: `List channels the credential can see. Public and private channels are
included by default; archived channels are hidden unless --archived is set.

Examples:
  slackctl channels
  slackctl channels --all
  slackctl channels --types im,mpim
  slackctl channels --json`,
	RunE: runChannels,
}

func init() {
	rootCmd.AddCommand(channelsCmd)

	channelsCmd.Flags().StringVar(&channelsTypes, "types", "", "Comma-separated conversation types (public_channel, private_channel, im, mpim)")
	channelsCmd.Flags().IntVar(&channelsLimit, "limit", 100, "Page size per API call")
	channelsCmd.Flags().BoolVar(&channelsAll, "all", false, "Fetch every page, not just the first")
	channelsCmd.Flags().BoolVar(&channelsArchived, "archived", false, "Include archived channels")
	channelsCmd.Flags().BoolVar(&channelsJSON, "json", false, "Output as JSON")
}

func runChannels(cmd *cobra.Command, _ []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	var (
		channels []slack.Channel
		cursor   string
	)

	for {
		result, err := client.ListChannels(cmd.Context(), slack.ListChannelsOptions{
			Types:           channelsTypes,
			Limit:           channelsLimit,
			Cursor:          cursor,
			ExcludeArchived: !channelsArchived,
		})
		if err != nil {
			return err
		}

		channels = append(channels, result.Channels...)

		cursor = result.NextCursor
		if cursor == "" || !channelsAll {
			break
		}
	}

	if channelsJSON {
		return printJSON(channels)
	}

	if len(channels) == 0 {
		printEmptyResult("channels", "")
		return nil
	}

	for _, channel := range channels {
		name := "#" + channel.Name
		if channel.IsIM {
			name = "@" + channel.ID
		}

		line := fmt.Sprintf("%s %s", boldStyle.Render(name), dimStyle.Render(channel.ID))

		if channel.IsPrivate {
			line += " " + dimStyle.Render("(private)")
		}

		if channel.IsArchived {
			line += " " + warningStyle.Render("(archived)")
		}

		if channel.Topic.Value != "" {
			line += " " + dimStyle.Render(truncateString(channel.Topic.Value, 60))
		}

		_, _ = fmt.Fprintln(os.Stdout, line)
	}

	if cursor != "" {
		_, _ = fmt.Fprintln(os.Stdout, dimStyle.Render("More channels available; rerun with --all"))
	}

	return nil
}
