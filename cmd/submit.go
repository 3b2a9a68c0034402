package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/securevault/cli/pkg/pipeline"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Upload and encrypt the staged set",
	Long: `Submit the staged files: every file must have a tag and an expiry.
All files are uploaded in one request, then encrypted one at a time in
order. If an encrypt step fails the submission stops there; files
encrypted before the failure stay on the server.`,
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	result, err := ctrl.Pipeline.Submit(cmd.Context(), ctrl.Staging.Items())
	if err != nil {
		var encrypt *pipeline.EncryptError
		if errors.As(err, &encrypt) {
			fmt.Printf("Files before %s were uploaded and encrypted; re-submit the rest.\n", encrypt.FileName)
		}
		return err
	}
	ctrl.PersistStaging()

	color.Green(result.Message)
	fmt.Printf("Active selection: %s\n", result.Selected.FileName)
	return nil
}
