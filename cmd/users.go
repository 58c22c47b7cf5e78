package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var usersJSON bool

var usersCmd = &cobra.Command{
	Use:   "user <user-id>...",
	Short: "Show information about users",
	Long: `Look up one or more users by ID. With several IDs, lookups proceed one by
one and individual failures are skipped.

Examples:
  slackctl user U0123ABCD
  slackctl user U0123ABCD U0456EFGH --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUsers,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.Flags().BoolVar(&usersJSON, "json", false, "Output as JSON")
}

func runUsers(cmd *cobra.Command, args []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		user, err := client.GetUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if usersJSON {
			return printJSON(user)
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", headerStyle.Render("Name:"), displayName(user))
		_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", headerStyle.Render("Handle:"), "@"+user.Name)
		_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", headerStyle.Render("ID:"), user.ID)

		if user.Profile.Email != "" {
			_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", headerStyle.Render("Email:"), user.Profile.Email)
		}

		if user.IsBot {
			_, _ = fmt.Fprintln(os.Stdout, dimStyle.Render("(bot)"))
		}

		return nil
	}

	users := client.GetUsersBestEffort(cmd.Context(), args)

	if usersJSON {
		return printJSON(users)
	}

	for _, id := range args {
		user, ok := users[id]
		if !ok {
			_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", id, warningStyle.Render("(not found)"))
			continue
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s %s %s\n",
			boldStyle.Render(displayName(user)), dimStyle.Render("@"+user.Name), dimStyle.Render(id))
	}

	return nil
}
