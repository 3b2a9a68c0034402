package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/securevault/cli/pkg/model"
	"github.com/securevault/cli/pkg/pipeline"
	"github.com/securevault/cli/pkg/staging"
)

// Storage persists watcher state between runs
type Storage interface {
	GetProcessedFile(filePath string) (*model.ProcessedFile, error)
	SaveProcessedFile(file *model.ProcessedFile) error
	SaveWatchState(state *model.WatchState) error
}

// Submitter drives one file through the upload/encrypt pipeline
type Submitter interface {
	Submit(ctx context.Context, items []model.PendingUploadItem) (*pipeline.Result, error)
}

// Watcher auto-submits files dropped into a folder. Each stable file is
// fingerprinted, skipped when an unchanged copy was already submitted,
// and otherwise pushed through the submission pipeline with the
// watcher's default tag and expiry.
type Watcher struct {
	ctx           context.Context
	submitter     Submitter
	storage       Storage
	state         *model.WatchState
	fileWatcher   *FileWatcher
	debounceQueue *DebounceQueue

	workers    sync.WaitGroup
	inFlight   map[string]bool
	inFlightMu sync.Mutex

	// submitMu serializes submissions: the pipeline is single-flight
	// and rejects a second Submit while one is running, so concurrent
	// per-file goroutines must queue here instead of racing it.
	submitMu sync.Mutex
}

func NewWatcher(ctx context.Context, submitter Submitter, storage Storage, state *model.WatchState) (*Watcher, error) {
	w := &Watcher{
		ctx:       ctx,
		submitter: submitter,
		storage:   storage,
		state:     state,
		inFlight:  make(map[string]bool),
	}

	w.debounceQueue = NewDebounceQueue(time.Duration(state.DebounceMs) * time.Millisecond)

	fileWatcher, err := NewFileWatcher(w.onFileEvent, w.onNewDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fileWatcher = fileWatcher

	return w, nil
}

// Start begins watching the folder
func (w *Watcher) Start() error {
	if err := w.fileWatcher.AddRecursive(w.state.WatchPath); err != nil {
		return fmt.Errorf("failed to add watch path: %w", err)
	}
	w.fileWatcher.Start()

	fmt.Printf("Watching folder: %s\n", w.state.WatchPath)
	fmt.Printf("Tag: %s\n", w.state.TagID)
	fmt.Printf("Expiry: %s\n", w.state.Expiry)
	fmt.Printf("Debounce: %dms\n", w.state.DebounceMs)
	fmt.Println("\nPress Ctrl+C to stop watching...")

	return nil
}

// PerformInitialScan submits files already present in the folder
func (w *Watcher) PerformInitialScan() error {
	fmt.Println("Performing initial scan...")

	var files []string
	err := filepath.Walk(w.state.WatchPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip inaccessible files
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("initial scan failed: %w", err)
	}

	fmt.Printf("Found %d file(s) in initial scan\n", len(files))
	for _, file := range files {
		w.processFile(file)
	}
	return nil
}

func (w *Watcher) onFileEvent(filePath string) {
	w.debounceQueue.Add(filePath, func(path string) {
		w.processFile(path)
	})
}

func (w *Watcher) onNewDirectory(dirPath string) {
	fmt.Printf("New directory detected: %s\n", filepath.Base(dirPath))
}

// processFile submits one stable file in the background
func (w *Watcher) processFile(filePath string) {
	w.inFlightMu.Lock()
	if w.inFlight[filePath] {
		w.inFlightMu.Unlock()
		return
	}
	w.inFlight[filePath] = true
	w.inFlightMu.Unlock()

	w.workers.Add(1)
	go func() {
		defer w.workers.Done()
		defer func() {
			w.inFlightMu.Lock()
			delete(w.inFlight, filePath)
			w.inFlightMu.Unlock()
		}()

		if err := w.submitFile(filePath); err != nil {
			fmt.Printf("✗ Failed: %s - %v\n", filepath.Base(filePath), err)
		}

		w.state.LastProcessed = time.Now().Unix()
		if err := w.storage.SaveWatchState(w.state); err != nil {
			fmt.Printf("Warning: failed to save watch state: %v\n", err)
		}
	}()
}

func (w *Watcher) submitFile(filePath string) error {
	w.submitMu.Lock()
	defer w.submitMu.Unlock()

	item, err := staging.DescribeFile(filePath)
	if err != nil {
		return err
	}

	prev, err := w.storage.GetProcessedFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to check processed files: %w", err)
	}
	if prev != nil && prev.Fingerprint == item.ID && alreadySubmitted(prev.Status) {
		fmt.Printf("○ Skipped: %s (already submitted)\n", item.FileName)
		w.recordProcessed(filePath, item.ID, model.StatusDuplicate, nil)
		return nil
	}

	item.TagID = w.state.TagID
	item.Expiry = w.state.Expiry

	if _, err := w.submitter.Submit(w.ctx, []model.PendingUploadItem{item}); err != nil {
		w.recordProcessed(filePath, item.ID, model.StatusFailed, err)
		return err
	}

	fmt.Printf("✓ Submitted: %s\n", item.FileName)
	w.recordProcessed(filePath, item.ID, model.StatusSubmitted, nil)
	return nil
}

// alreadySubmitted reports whether a stored record means the file's
// content is on the server. A duplicate skip records StatusDuplicate, so
// that status must keep satisfying the guard or the next event for the
// same unchanged file would re-submit it.
func alreadySubmitted(status model.FileProcessStatus) bool {
	return status == model.StatusSubmitted || status == model.StatusDuplicate
}

func (w *Watcher) recordProcessed(filePath, fingerprint string, status model.FileProcessStatus, cause error) {
	record := &model.ProcessedFile{
		FilePath:    filePath,
		Fingerprint: fingerprint,
		ProcessedAt: time.Now().Unix(),
		Status:      status,
	}
	if cause != nil {
		record.Error = cause.Error()
	}
	if err := w.storage.SaveProcessedFile(record); err != nil {
		fmt.Printf("Warning: failed to save processed file: %v\n", err)
	}
}

// Shutdown gracefully stops the watcher
func (w *Watcher) Shutdown() error {
	fmt.Println("\nShutting down watcher...")

	w.fileWatcher.Close()
	w.debounceQueue.Stop()

	done := make(chan struct{})
	go func() {
		w.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		fmt.Println("All submissions completed")
	case <-time.After(30 * time.Second):
		fmt.Println("Shutdown timeout - some submissions may be incomplete")
	}

	if err := w.storage.SaveWatchState(w.state); err != nil {
		return fmt.Errorf("failed to save watch state: %w", err)
	}
	return nil
}
