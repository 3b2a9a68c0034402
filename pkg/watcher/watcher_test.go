package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/securevault/cli/pkg/model"
	"github.com/securevault/cli/pkg/pipeline"
)

// singleFlightSubmitter mirrors the pipeline's guard: a second Submit
// while one is running fails fast instead of queueing.
type singleFlightSubmitter struct {
	mu        sync.Mutex
	calls     int
	callNames []string
}

func (s *singleFlightSubmitter) Submit(_ context.Context, items []model.PendingUploadItem) (*pipeline.Result, error) {
	if !s.mu.TryLock() {
		return nil, fmt.Errorf("a submission is already in progress")
	}
	defer s.mu.Unlock()

	time.Sleep(10 * time.Millisecond)
	s.calls++
	for _, item := range items {
		s.callNames = append(s.callNames, item.FileName)
	}
	return &pipeline.Result{}, nil
}

type memStorage struct {
	mu        sync.Mutex
	processed map[string]*model.ProcessedFile
	states    map[string]*model.WatchState
}

func newMemStorage() *memStorage {
	return &memStorage{
		processed: make(map[string]*model.ProcessedFile),
		states:    make(map[string]*model.WatchState),
	}
}

func (m *memStorage) GetProcessedFile(filePath string) (*model.ProcessedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processed[filePath], nil
}

func (m *memStorage) SaveProcessedFile(file *model.ProcessedFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed[file.FilePath] = file
	return nil
}

func (m *memStorage) SaveWatchState(state *model.WatchState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.WatchPath] = state
	return nil
}

func writeTestFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("content of "+name), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func testWatchState(dir string) *model.WatchState {
	return &model.WatchState{
		WatchPath:  dir,
		TagID:      "scans",
		Expiry:     "2026-12-31T18:00",
		DebounceMs: 10,
	}
}

func TestInitialScanSubmitsEveryFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFiles(t, dir, "a.pdf", "b.pdf", "c.pdf")

	submitter := &singleFlightSubmitter{}
	storage := newMemStorage()
	w, err := NewWatcher(context.Background(), submitter, storage, testWatchState(dir))
	if err != nil {
		t.Fatal(err)
	}

	if err := w.PerformInitialScan(); err != nil {
		t.Fatal(err)
	}
	if err := w.Shutdown(); err != nil {
		t.Fatal(err)
	}

	if submitter.calls != 3 {
		t.Fatalf("submissions = %d, want 3 (one per scanned file)", submitter.calls)
	}

	storage.mu.Lock()
	defer storage.mu.Unlock()
	for _, record := range storage.processed {
		if record.Status != model.StatusSubmitted {
			t.Errorf("%s recorded as %s, want submitted", record.FilePath, record.Status)
		}
	}
}

func TestUnchangedFileNeverResubmitted(t *testing.T) {
	dir := t.TempDir()
	writeTestFiles(t, dir, "a.pdf")
	path := filepath.Join(dir, "a.pdf")

	submitter := &singleFlightSubmitter{}
	storage := newMemStorage()
	w, err := NewWatcher(context.Background(), submitter, storage, testWatchState(dir))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Shutdown()

	// Repeated events for the same unchanged file: the first submits,
	// every later one must keep skipping even though each skip rewrites
	// the stored record.
	for i := 0; i < 3; i++ {
		if err := w.submitFile(path); err != nil {
			t.Fatal(err)
		}
	}

	if submitter.calls != 1 {
		t.Errorf("submissions = %d, want 1", submitter.calls)
	}
	record, _ := storage.GetProcessedFile(path)
	if record == nil || record.Status != model.StatusDuplicate {
		t.Fatalf("record after skips = %+v, want duplicate status", record)
	}
}

func TestChangedFileIsResubmitted(t *testing.T) {
	dir := t.TempDir()
	writeTestFiles(t, dir, "a.pdf")
	path := filepath.Join(dir, "a.pdf")

	submitter := &singleFlightSubmitter{}
	storage := newMemStorage()
	w, err := NewWatcher(context.Background(), submitter, storage, testWatchState(dir))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Shutdown()

	if err := w.submitFile(path); err != nil {
		t.Fatal(err)
	}

	// New content and mtime give the file a new fingerprint.
	if err := os.WriteFile(path, []byte("rewritten"), 0o600); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	if err := w.submitFile(path); err != nil {
		t.Fatal(err)
	}

	if submitter.calls != 2 {
		t.Errorf("submissions = %d, want 2 (changed file must go through)", submitter.calls)
	}
}
