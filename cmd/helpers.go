package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/inovacc/slackctl/internal/model"
	"github.com/inovacc/slackctl/internal/slack"
	"github.com/inovacc/slackctl/internal/store"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// workspaceClient resolves the selected workspace from the credential store
// and builds an API client bound to it. The --workspace flag selects by ID or
// name; empty falls back to the default workspace.
func workspaceClient() (*slack.Client, error) {
	s, err := store.New()
	if err != nil {
		return nil, err
	}

	cred, err := s.Resolve(rootWorkspace)
	if err != nil {
		return nil, err
	}

	return slack.NewClient(cred, slack.ClientOptions{Logger: logger}), nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

// formatSlackTime renders a Slack timestamp in the local timezone. Falls back
// to the raw value if it does not parse.
func formatSlackTime(ts string) string {
	parsed, err := slack.ParseTimestamp(ts)
	if err != nil {
		return ts
	}

	return parsed.Local().Format(time.DateTime)
}

// formatAuthType returns a human-readable string for a credential variant
func formatAuthType(cred model.Credential) string {
	switch cred.AuthType {
	case model.AuthTypeBrowser:
		return "browser session"
	case model.AuthTypeToken:
		switch cred.TokenType() {
		case model.TokenTypeBot:
			return "bot token"
		case model.TokenTypeUser:
			return "user token"
		default:
			return "token"
		}
	default:
		return string(cred.AuthType)
	}
}

// displayName prefers the user's display name, then real name, then handle
func displayName(user *slack.User) string {
	if user == nil {
		return ""
	}

	if user.Profile.DisplayName != "" {
		return user.Profile.DisplayName
	}

	if user.RealName != "" {
		return user.RealName
	}

	return user.Name
}

// printEmptyResult prints a "no results" message with a create hint
func printEmptyResult(resourceType, createCmd string) {
	_, _ = fmt.Fprintf(os.Stdout, "No %s found.\n", resourceType)

	if createCmd != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Try: %s\n", createCmd)
	}
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}

// readSecret reads a secret from the terminal without echoing. Keeps tokens
// out of shell history and the process list.
func readSecret(prompt string) (string, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(os.Stderr) // New line after secret input

		if err != nil {
			return "", err
		}

		return strings.TrimSpace(string(secret)), nil
	}

	// Fallback for non-terminal (piped input)
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}

	return "", fmt.Errorf("no input available")
}

// promptConfirm asks the user for confirmation and returns true if they confirm
// prompt should include the question (e.g., "Remove this workspace? [y/N]: ")
func promptConfirm(prompt string) bool {
	_, _ = fmt.Fprint(os.Stdout, prompt)

	var response string

	_, _ = fmt.Scanln(&response)

	return response == "y" || response == "Y"
}
