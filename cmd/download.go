package cmd

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var downloadCmd = &cobra.Command{
	Use:   "download <file-name>",
	Short: "Save the decrypted content of a file",
	Long: `Save the decrypted content of a file to disk. When the file is
already open as the current preview its bytes are reused, so repeated
downloads cost a single decrypt.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringP("output", "o", "", "Destination path (default: download dir / file name)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	file, err := findCatalogFile(cmd, args[0])
	if err != nil {
		return err
	}

	dest, _ := cmd.Flags().GetString("output")
	if dest == "" {
		dest = filepath.Join(viper.GetString("download_dir"), file.FileName)
	}

	if err := ctrl.Preview.Download(cmd.Context(), file, dest); err != nil {
		return err
	}
	color.Green("Saved %s", dest)
	return nil
}
