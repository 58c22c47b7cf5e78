package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inovacc/slackctl/internal/slack"
)

var (
	searchSort  string
	searchDir   string
	searchCount int
	searchPage  int
	searchFiles bool
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search workspace messages or files",
	Long: `Search the workspace. Queries support Slack's search modifiers such as
in:#channel, from:@user and before:/after: dates. Search requires a user
credential; bot tokens are rejected by the remote API.

Examples:
  slackctl search "deploy failed"
  slackctl search "in:#ops error" --sort timestamp
  slackctl search "report" --files
  slackctl search "report" --files --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Sort order: score or timestamp")
	searchCmd.Flags().StringVar(&searchDir, "dir", "", "Sort direction: asc or desc")
	searchCmd.Flags().IntVar(&searchCount, "count", 20, "Results per page")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Result page")
	searchCmd.Flags().BoolVar(&searchFiles, "files", false, "Search files instead of messages")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	opts := slack.SearchOptions{
		Query: args[0],
		Sort:  searchSort,
		Dir:   searchDir,
		Count: searchCount,
		Page:  searchPage,
	}

	if searchFiles {
		result, err := client.SearchFiles(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if searchJSON {
			return printJSON(result)
		}

		if len(result.Matches) == 0 {
			printEmptyResult("files", "")
			return nil
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s\n", headerStyle.Render(fmt.Sprintf("%d files match %q", result.Total, result.Query)))

		for _, file := range result.Matches {
			_, _ = fmt.Fprintf(os.Stdout, "%s %s %s\n",
				boldStyle.Render(file.Name), dimStyle.Render(file.ID), dimStyle.Render(file.Permalink))
		}

		return nil
	}

	result, err := client.SearchMessages(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if searchJSON {
		return printJSON(result)
	}

	if len(result.Matches) == 0 {
		printEmptyResult("messages", "")
		return nil
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s\n", headerStyle.Render(fmt.Sprintf("%d messages match %q", result.Total, result.Query)))

	for _, match := range result.Matches {
		author := match.Username
		if author == "" {
			author = match.User
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s %s %s  %s\n",
			dimStyle.Render(formatSlackTime(match.Timestamp)),
			dimStyle.Render("#"+match.Channel.Name),
			boldStyle.Render(author),
			truncateString(match.Text, 120))
	}

	return nil
}
