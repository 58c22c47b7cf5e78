package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage server-side message drafts",
	Long: `Manage message drafts held server-side, the same drafts the Slack web and
desktop clients show. Drafts are only reachable through a browser-session
credential; register one with 'slackctl auth login --curl' first.`,
}

func init() {
	rootCmd.AddCommand(draftCmd)
}

var draftCreateCmd = &cobra.Command{
	Use:   "create <channel> <text>",
	Short: "Create a draft",
	Long: `Create a draft message targeting a channel. The draft shows up in the
channel's composer in your Slack clients, ready to edit and send.

Examples:
  slackctl draft create general "notes for the standup"`,
	Args: cobra.ExactArgs(2),
	RunE: runDraftCreate,
}

func init() {
	draftCmd.AddCommand(draftCreateCmd)
}

func runDraftCreate(cmd *cobra.Command, args []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	channelID, err := client.ResolveChannelID(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	draft, err := client.CreateDraft(cmd.Context(), channelID, args[1])
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Draft %s created for %s\n", draft.ID, channelID)

	return nil
}

var draftListJSON bool

var draftListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List active drafts",
	Long: `List your active drafts with their destinations and body text.

Examples:
  slackctl draft list
  slackctl draft list --json`,
	RunE: runDraftList,
}

func init() {
	draftCmd.AddCommand(draftListCmd)
	draftListCmd.Flags().BoolVar(&draftListJSON, "json", false, "Output as JSON")
}

func runDraftList(cmd *cobra.Command, _ []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	drafts, err := client.ListDrafts(cmd.Context())
	if err != nil {
		return err
	}

	if draftListJSON {
		return printJSON(drafts)
	}

	if len(drafts) == 0 {
		printEmptyResult("drafts", "slackctl draft create <channel> <text>")
		return nil
	}

	for _, draft := range drafts {
		destinations := ""
		for i, dest := range draft.Destinations {
			if i > 0 {
				destinations += ","
			}
			destinations += dest
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s %s  %s\n",
			boldStyle.Render(draft.ID),
			dimStyle.Render(destinations),
			truncateString(draft.Text, 80))
	}

	return nil
}

var draftDeleteCmd = &cobra.Command{
	Use:     "delete <draft-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a draft",
	Long: `Delete a draft by ID, as shown by 'slackctl draft list'.

Examples:
  slackctl draft delete Dr0123ABCD`,
	Args: cobra.ExactArgs(1),
	RunE: runDraftDelete,
}

func init() {
	draftCmd.AddCommand(draftDeleteCmd)
}

func runDraftDelete(cmd *cobra.Command, args []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	if err := client.DeleteDraft(cmd.Context(), args[0]); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, "Draft deleted.")

	return nil
}
