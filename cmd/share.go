package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share <file-name>",
	Short: "Share a file notice",
	Long: `Publish a short share notice for a file. A configured share
command (share_command in the config) is preferred; otherwise the
message is copied to the clipboard.`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

func init() {
	rootCmd.AddCommand(shareCmd)
}

func runShare(cmd *cobra.Command, args []string) error {
	file, err := findCatalogFile(cmd, args[0])
	if err != nil {
		return err
	}

	outcome, err := ctrl.Sharer.Share(file)
	if err != nil {
		return err
	}
	color.Green(outcome)
	return nil
}
