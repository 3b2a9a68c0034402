package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/securevault/cli/pkg/model"
	"github.com/securevault/cli/pkg/pipeline"
	"github.com/securevault/cli/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <folder>",
	Short: "Watch a folder and automatically submit new files",
	Long: `Watch a folder for new files and submit each one for upload and
encryption with a fixed tag and expiry.

Features:
  - Recursive watching (subdirectories are picked up automatically)
  - Debouncing (waits for file writes to complete)
  - Duplicate detection (unchanged files are not re-submitted)
  - State persistence (recovers on restart)
  - Graceful shutdown (Ctrl+C)

Examples:
  vault watch ~/Scans --tag=finance --expiry=2026-12-31T18:00
  vault watch ~/Inbox --tag=archive --expiry=2027-01-01T00:00 --initial-scan
  vault watch ~/Inbox --tag=bills --expiry=2026-10-01T00:00 --debounce=3000`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("tag", "", "Tag applied to every submitted file (required)")
	watchCmd.Flags().String("expiry", "", "Expiry applied to every submitted file (required)")
	watchCmd.Flags().Int("debounce", 5000, "File write debounce in milliseconds")
	watchCmd.Flags().Bool("initial-scan", false, "Submit existing files on startup")
}

// watchStaging satisfies the pipeline's clear hook without touching the
// user's staged set; watch submissions never go through the staging
// manager.
type watchStaging struct{}

func (watchStaging) Clear() {}

func runWatch(cmd *cobra.Command, args []string) error {
	tagID, _ := cmd.Flags().GetString("tag")
	expiry, _ := cmd.Flags().GetString("expiry")
	debounceMs, _ := cmd.Flags().GetInt("debounce")
	initialScan, _ := cmd.Flags().GetBool("initial-scan")

	if tagID == "" || expiry == "" {
		return fmt.Errorf("--tag and --expiry are required")
	}
	if pipeline.NormalizeExpiry(expiry) == "" {
		return fmt.Errorf("invalid expiry %q (expected e.g. 2026-12-31T18:00)", expiry)
	}

	absPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path '%s': %w", args[0], err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("path '%s' does not exist: %w", absPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path '%s' is not a directory", absPath)
	}

	watchState := &model.WatchState{
		WatchPath:     absPath,
		TagID:         tagID,
		Expiry:        expiry,
		DebounceMs:    debounceMs,
		StartedAt:     time.Now().Unix(),
		LastProcessed: time.Now().Unix(),
	}
	if prev, err := ctrl.GetWatchState(absPath); err == nil && prev != nil {
		watchState.StartedAt = prev.StartedAt
		fmt.Printf("Resuming watch (last activity %s)\n",
			time.Unix(prev.LastProcessed, 0).Format("2006-01-02 15:04:05"))
	}

	submitter := pipeline.New(ctrl.Client, ctrl.Catalog, watchStaging{})

	w, err := watcher.NewWatcher(cmd.Context(), submitter, ctrl, watchState)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if initialScan {
		if err := w.PerformInitialScan(); err != nil {
			w.Shutdown()
			return fmt.Errorf("initial scan failed: %w", err)
		}
	}

	if err := w.Start(); err != nil {
		w.Shutdown()
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := w.Shutdown(); err != nil {
		fmt.Printf("Warning: shutdown error: %v\n", err)
	}

	fmt.Println("Watch stopped")
	return nil
}
