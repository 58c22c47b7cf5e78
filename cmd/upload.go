package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inovacc/slackctl/internal/slack"
)

var (
	uploadChannel string
	uploadThread  string
	uploadComment string
	uploadTitle   string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload files to a channel",
	Long: `Upload one or more local files. Without --channel the files are uploaded
privately to your own file list. All files complete in a single step at the
end, so they appear in the channel together.

Examples:
  slackctl upload report.pdf --channel general
  slackctl upload a.log b.log --channel ops --comment "tonight's logs"
  slackctl upload chart.png --channel general --thread 1700000000.000100`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadChannel, "channel", "", "Channel to share the files in")
	uploadCmd.Flags().StringVar(&uploadThread, "thread", "", "Thread parent timestamp to share under")
	uploadCmd.Flags().StringVar(&uploadComment, "comment", "", "Message posted alongside the files")
	uploadCmd.Flags().StringVar(&uploadTitle, "title", "", "Title for the uploaded file (single file only)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadTitle != "" && len(args) > 1 {
		return fmt.Errorf("--title only applies to a single file")
	}

	client, err := workspaceClient()
	if err != nil {
		return err
	}

	channelID := ""
	if uploadChannel != "" {
		channelID, err = client.ResolveChannelID(cmd.Context(), uploadChannel)
		if err != nil {
			return err
		}
	}

	files := make([]slack.UploadFile, 0, len(args))

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		files = append(files, slack.UploadFile{
			Name:  filepath.Base(path),
			Title: uploadTitle,
			Data:  data,
		})
	}

	uploaded, err := client.UploadFiles(cmd.Context(), slack.UploadOptions{
		Files:          files,
		Channel:        channelID,
		ThreadTS:       uploadThread,
		InitialComment: uploadComment,
		Progress: func(stage slack.UploadStage, filename string) {
			switch stage {
			case slack.UploadStageBytes:
				_, _ = fmt.Fprintf(os.Stdout, "Uploading %s...\n", filename)
			case slack.UploadStageComplete:
				_, _ = fmt.Fprintln(os.Stdout, "Finalizing...")
			}
		},
	})
	if err != nil {
		return err
	}

	for _, file := range uploaded {
		_, _ = fmt.Fprintf(os.Stdout, "Uploaded %s\n", file.ID)
	}

	return nil
}
