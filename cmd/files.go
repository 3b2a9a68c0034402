package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/securevault/cli/pkg/model"
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List files known to the server",
	Long: `Refresh the local catalog mirror and list every file the server
knows about. Without a signed-in account the catalog is empty and no
request is made.`,
	RunE: runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, _ []string) error {
	files, err := ctrl.Catalog.Refresh(cmd.Context())
	if err != nil {
		// Previous contents persist on a failed refresh.
		color.Yellow(ctrl.Catalog.Status())
		files = ctrl.Catalog.Files()
	}

	if len(files) == 0 {
		fmt.Println("No files")
		return nil
	}

	for _, f := range files {
		fmt.Printf("%-40s %10s  %-10s %s\n",
			f.FileName, formatBytes(f.SizeBytes), colorStatus(f.Status), f.TagID)
	}
	fmt.Printf("\n%d file(s)\n", len(files))
	return nil
}

func colorStatus(status model.FileStatus) string {
	switch status {
	case model.StatusEncrypted:
		return color.GreenString(string(status))
	case model.StatusDecrypted:
		return color.CyanString(string(status))
	default:
		return color.YellowString(string(status))
	}
}

// formatBytes formats bytes into a human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
