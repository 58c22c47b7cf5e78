package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/inovacc/slackctl/internal/application"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	rootWorkspace string
	rootVerbose   bool

	// logger is configured once in PersistentPreRun and injected into every
	// API client the commands build
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
)

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "A Slack client for the command line",
	Long: `Slackctl is a command-line Slack client. It talks to the Slack API with
either a standard bot/user token or a replayed browser session, so it works
even in workspaces where you cannot install an app.

Register a workspace first:
  slackctl auth login --token xoxb-...       # standard API token
  slackctl auth login --curl                 # paste a cURL command copied
                                             # from your browser's dev tools

Then use it:
  slackctl channels
  slackctl history general
  slackctl send general "hello from the terminal"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootVerbose {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}))
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// SetVersionInfo wires build-time version metadata into the root command.
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootWorkspace, "workspace", "w", "", "Workspace ID or name (defaults to the default workspace)")
	rootCmd.PersistentFlags().BoolVar(&rootVerbose, "verbose", false, "Enable debug logging on stderr")

	// Accept snake_case spellings of every flag
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}
