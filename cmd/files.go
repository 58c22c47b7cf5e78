package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inovacc/slackctl/internal/encoding"
	"github.com/inovacc/slackctl/internal/slack"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List, inspect and download workspace files",
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

var (
	filesListChannel string
	filesListUser    string
	filesListTypes   string
	filesListCount   int
	filesListPage    int
	filesListJSON    bool
)

var filesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workspace files",
	Long: `List files visible to the credential, newest first.

Examples:
  slackctl files list
  slackctl files list --channel general --types images
  slackctl files list --json`,
	RunE: runFilesList,
}

func init() {
	filesCmd.AddCommand(filesListCmd)

	filesListCmd.Flags().StringVar(&filesListChannel, "channel", "", "Only files shared in this channel")
	filesListCmd.Flags().StringVar(&filesListUser, "user", "", "Only files uploaded by this user ID")
	filesListCmd.Flags().StringVar(&filesListTypes, "types", "", "Comma-separated type filter (e.g. images,pdfs)")
	filesListCmd.Flags().IntVar(&filesListCount, "count", 20, "Results per page")
	filesListCmd.Flags().IntVar(&filesListPage, "page", 1, "Result page")
	filesListCmd.Flags().BoolVar(&filesListJSON, "json", false, "Output as JSON")
}

func runFilesList(cmd *cobra.Command, _ []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	channelID := ""
	if filesListChannel != "" {
		channelID, err = client.ResolveChannelID(cmd.Context(), filesListChannel)
		if err != nil {
			return err
		}
	}

	result, err := client.ListFiles(cmd.Context(), slack.ListFilesOptions{
		Channel: channelID,
		User:    filesListUser,
		Types:   filesListTypes,
		Count:   filesListCount,
		Page:    filesListPage,
	})
	if err != nil {
		return err
	}

	if filesListJSON {
		return printJSON(result.Files)
	}

	if len(result.Files) == 0 {
		printEmptyResult("files", "")
		return nil
	}

	for _, file := range result.Files {
		_, _ = fmt.Fprintf(os.Stdout, "%s %s %s %s\n",
			boldStyle.Render(file.Name),
			dimStyle.Render(file.ID),
			dimStyle.Render(file.Mimetype),
			dimStyle.Render(formatByteSize(file.Size)))
	}

	if result.Pages > 1 {
		_, _ = fmt.Fprintln(os.Stdout, dimStyle.Render(
			fmt.Sprintf("Page %d of %d; rerun with --page", result.Page, result.Pages)))
	}

	return nil
}

var filesInfoJSON bool

var filesInfoCmd = &cobra.Command{
	Use:   "info <file-id>",
	Short: "Show file metadata",
	Long: `Show metadata for one file.

Examples:
  slackctl files info F0123ABCD
  slackctl files info F0123ABCD --json`,
	Args: cobra.ExactArgs(1),
	RunE: runFilesInfo,
}

func init() {
	filesCmd.AddCommand(filesInfoCmd)
	filesInfoCmd.Flags().BoolVar(&filesInfoJSON, "json", false, "Output as JSON")
}

func runFilesInfo(cmd *cobra.Command, args []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	file, err := client.GetFileInfo(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if filesInfoJSON {
		return printJSON(file)
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", headerStyle.Render("Name:"), file.Name)

	if file.Title != "" && file.Title != file.Name {
		_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", headerStyle.Render("Title:"), file.Title)
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", headerStyle.Render("ID:"), file.ID)
	_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", headerStyle.Render("Type:"), file.Mimetype)
	_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", headerStyle.Render("Size:"), formatByteSize(file.Size))
	_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", headerStyle.Render("Uploaded by:"), file.User)
	_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", headerStyle.Render("Permalink:"), file.Permalink)

	return nil
}

var filesDownloadOutput string

var filesDownloadCmd = &cobra.Command{
	Use:     "download <file-id>",
	Aliases: []string{"get"},
	Short:   "Download a file",
	Long: `Download a file's content. By default the file is written to the current
directory under its Slack filename; use --output to choose a path, or
--output - to write to stdout.

Examples:
  slackctl files download F0123ABCD
  slackctl files download F0123ABCD --output report.pdf
  slackctl files download F0123ABCD --output - | less`,
	Args: cobra.ExactArgs(1),
	RunE: runFilesDownload,
}

func init() {
	filesCmd.AddCommand(filesDownloadCmd)
	filesDownloadCmd.Flags().StringVarP(&filesDownloadOutput, "output", "o", "", "Output path, or - for stdout")
}

func runFilesDownload(cmd *cobra.Command, args []string) error {
	client, err := workspaceClient()
	if err != nil {
		return err
	}

	file, err := client.GetFileInfo(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	data, err := client.DownloadFile(cmd.Context(), file)
	if err != nil {
		return err
	}

	if filesDownloadOutput == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}

	target := filesDownloadOutput
	if target == "" {
		target = filepath.Base(file.Name)
	}

	if encoding.FileExists(target) && !promptConfirm(fmt.Sprintf("Overwrite %s? [y/N]: ", target)) {
		_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
		return nil
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Saved %s (%s)\n", target, formatByteSize(int64(len(data))))

	return nil
}

// formatByteSize renders a size in a compact human-readable unit.
func formatByteSize(size int64) string {
	const unit = 1024

	if size < unit {
		return fmt.Sprintf("%dB", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f%cB", float64(size)/float64(div), "KMGTPE"[exp])
}
