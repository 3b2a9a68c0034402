package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/securevault/cli/pkg/model"
	"github.com/securevault/cli/pkg/staging"
	"github.com/spf13/cobra"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Manage the staged upload set",
	Long: `Stage files for upload and edit their tag/expiry metadata before
submitting. At most 15 files can be staged at once; files already staged
(same name, size, and modification time) are silently skipped.

Examples:
  vault stage add report.pdf scan.png
  vault stage tag finance --apply-to-all
  vault stage expiry 2026-12-31T18:00 --apply-to-all
  vault stage tag medical_records --id 1a2b3c
  vault stage list
  vault submit`,
}

var stageAddCmd = &cobra.Command{
	Use:   "add <files...>",
	Short: "Stage files for upload",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStageAdd,
}

var stageListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the staged set",
	Run:   runStageList,
}

var stageTagCmd = &cobra.Command{
	Use:   "tag <tag-id>",
	Short: "Set the global default tag, or one item's tag with --id",
	Args:  cobra.ExactArgs(1),
	RunE:  runStageTag,
}

var stageExpiryCmd = &cobra.Command{
	Use:   "expiry <local-datetime>",
	Short: "Set the global default expiry, or one item's expiry with --id",
	Long: `Set the expiry as a local datetime, e.g. 2026-12-31T18:00. With
--id the value applies to a single staged item and is protected from
later global changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runStageExpiry,
}

var stageApplyAllCmd = &cobra.Command{
	Use:   "apply-all <true|false>",
	Short: "Toggle cascading of global defaults to staged items",
	Args:  cobra.ExactArgs(1),
	RunE:  runStageApplyAll,
}

var stageRemoveCmd = &cobra.Command{
	Use:   "rm <item-id>",
	Short: "Remove one staged item",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := ctrl.Staging.Remove(resolveItemID(args[0])); err != nil {
			return err
		}
		ctrl.PersistStaging()
		return nil
	},
}

var stageClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the staged set and reset defaults",
	Run: func(_ *cobra.Command, _ []string) {
		ctrl.Staging.Clear()
		ctrl.PersistStaging()
		fmt.Println("Staged set cleared")
	},
}

func init() {
	rootCmd.AddCommand(stageCmd)
	stageCmd.AddCommand(stageAddCmd)
	stageCmd.AddCommand(stageListCmd)
	stageCmd.AddCommand(stageTagCmd)
	stageCmd.AddCommand(stageExpiryCmd)
	stageCmd.AddCommand(stageApplyAllCmd)
	stageCmd.AddCommand(stageRemoveCmd)
	stageCmd.AddCommand(stageClearCmd)

	stageTagCmd.Flags().String("id", "", "Staged item id (sets the item's tag instead of the default)")
	stageTagCmd.Flags().Bool("apply-to-all", false, "Enable cascading before setting the value")
	stageExpiryCmd.Flags().String("id", "", "Staged item id (sets the item's expiry instead of the default)")
	stageExpiryCmd.Flags().Bool("apply-to-all", false, "Enable cascading before setting the value")
}

func runStageAdd(_ *cobra.Command, args []string) error {
	described, err := describePaths(args)
	if err != nil {
		return err
	}

	result := ctrl.Staging.Add(described)
	ctrl.PersistStaging()

	if result.Added > 0 {
		color.Green("Staged %d file(s)", result.Added)
	}
	if result.Dropped > 0 {
		fmt.Printf("Skipped %d already-staged file(s)\n", result.Dropped)
	}
	if result.Message != "" {
		color.Yellow(result.Message)
	}
	fmt.Printf("%d/%d staged\n", ctrl.Staging.Count(), model.MaxUploadFiles)
	return nil
}

func describePaths(paths []string) ([]model.PendingUploadItem, error) {
	described := make([]model.PendingUploadItem, 0, len(paths))
	for _, path := range paths {
		item, err := staging.DescribeFile(path)
		if err != nil {
			return nil, err
		}
		described = append(described, item)
	}
	return described, nil
}

func runStageList(_ *cobra.Command, _ []string) {
	items := ctrl.Staging.Items()
	if len(items) == 0 {
		fmt.Println("Nothing staged")
		return
	}

	defaults := ctrl.Staging.Defaults()
	fmt.Printf("Defaults: tag=%q expiry=%q apply-to-all=%v\n\n", defaults.TagID, defaults.Expiry, defaults.ApplyToAll)

	for _, item := range items {
		tagMark, expiryMark := " ", " "
		if item.TagOverridden {
			tagMark = "*"
		}
		if item.ExpiryOverridden {
			expiryMark = "*"
		}
		fmt.Printf("%s  %-32s %10s  tag=%s%s expiry=%s%s\n",
			item.ID[:8], item.FileName, formatBytes(item.SizeBytes),
			item.TagID, tagMark, item.Expiry, expiryMark)
	}
	fmt.Printf("\n%d file(s) staged (* = explicitly set)\n", len(items))
}

func runStageTag(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	applyToAll, _ := cmd.Flags().GetBool("apply-to-all")

	if id != "" {
		if err := ctrl.Staging.SetItemTag(resolveItemID(id), args[0]); err != nil {
			return err
		}
	} else {
		if applyToAll {
			ctrl.Staging.SetApplyToAll(true)
		}
		ctrl.Staging.SetGlobalTag(args[0])
	}
	ctrl.PersistStaging()
	return nil
}

func runStageExpiry(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	applyToAll, _ := cmd.Flags().GetBool("apply-to-all")

	if id != "" {
		if err := ctrl.Staging.SetItemExpiry(resolveItemID(id), args[0]); err != nil {
			return err
		}
	} else {
		if applyToAll {
			ctrl.Staging.SetApplyToAll(true)
		}
		ctrl.Staging.SetGlobalExpiry(args[0])
	}
	ctrl.PersistStaging()
	return nil
}

func runStageApplyAll(_ *cobra.Command, args []string) error {
	enabled, err := strconv.ParseBool(args[0])
	if err != nil {
		return fmt.Errorf("expected true or false, got %q", args[0])
	}
	ctrl.Staging.SetApplyToAll(enabled)
	ctrl.PersistStaging()
	return nil
}

// resolveItemID accepts either a full fingerprint or the 8-char prefix
// shown by `stage list`.
func resolveItemID(id string) string {
	for _, item := range ctrl.Staging.Items() {
		if item.ID == id || (len(id) >= 8 && len(item.ID) >= len(id) && item.ID[:len(id)] == id) {
			return item.ID
		}
	}
	return id
}
