package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/securevault/cli/pkg/model"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <file-name>",
	Short: "Decrypt a file and open a preview",
	Long: `Ask the server to decrypt the given file, fetch the decrypted
content, and materialize it locally. Opening a different file releases
the previous preview first; there is never more than one live preview.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

// findCatalogFile refreshes the catalog and resolves a canonical name
func findCatalogFile(cmd *cobra.Command, fileName string) (model.CatalogFile, error) {
	if _, err := ctrl.Catalog.Refresh(cmd.Context()); err != nil {
		color.Yellow(ctrl.Catalog.Status())
	}
	file, ok := ctrl.Catalog.ByName(fileName)
	if !ok {
		return model.CatalogFile{}, fmt.Errorf("no file named %q in the catalog", fileName)
	}
	return file, nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	file, err := findCatalogFile(cmd, args[0])
	if err != nil {
		return err
	}

	if err := ctrl.Preview.Select(cmd.Context(), file); err != nil {
		return err
	}

	color.Green(ctrl.Preview.Status())
	if handle := ctrl.Preview.Displayed(); handle != nil {
		fmt.Printf("Preview: %s (%s)\n", handle.Path(), formatBytes(handle.Size()))
	}
	return nil
}
