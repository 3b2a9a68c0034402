package preview

import (
	"context"
	"fmt"
	"sync"

	"github.com/securevault/cli/internal/api"
	"github.com/securevault/cli/pkg/model"
)

// Backend is the slice of the API client the session drives
type Backend interface {
	DecryptFile(ctx context.Context, fileName string) (*api.DecryptResponse, error)
	DownloadDecrypted(ctx context.Context, decryptedName string) ([]byte, error)
}

// CatalogRefresher re-syncs the catalog after a successful preview so
// the active entry picks up server-side status changes.
type CatalogRefresher interface {
	Refresh(ctx context.Context) ([]model.CatalogFile, error)
}

// EpochSource identifies the current sign-in session. Responses issued
// under an older epoch are discarded instead of applied.
type EpochSource interface {
	Epoch() string
}

// DecryptError means the server-side decrypt step failed; no resource
// was installed and any prior handle is untouched.
type DecryptError struct {
	FileName string
	Err      error
}

func (e *DecryptError) Error() string {
	return fmt.Sprintf("failed to decrypt %s: %v", e.FileName, e.Err)
}

func (e *DecryptError) Unwrap() error { return e.Err }

// FetchError means the decrypted content fetch failed
type FetchError struct {
	FileName string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch decrypted content for %s: %v", e.FileName, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Session owns the single live decrypted preview. Select drives
// decrypt -> fetch -> swap; the previous handle is released exactly once
// before the new one is installed.
type Session struct {
	backend Backend
	catalog CatalogRefresher
	epochs  EpochSource

	opMu sync.Mutex // serializes Select/Download end to end
	mu   sync.Mutex // guards the fields below

	active        *model.CatalogFile
	decryptedName string
	displayed     *Handle // what the caller should render; nil while loading
	handles       slot    // owns the live resource
	status        string
	busy          bool
}

func NewSession(backend Backend, catalog CatalogRefresher, epochs EpochSource) *Session {
	return &Session{
		backend: backend,
		catalog: catalog,
		epochs:  epochs,
	}
}

// Select makes the given catalog entry the active preview. The displayed
// reference is cleared synchronously before any network call, so a stale
// preview of another file is never shown while the new one loads.
func (s *Session) Select(ctx context.Context, file model.CatalogFile) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.load(ctx, file)
}

// load runs the decrypt -> fetch -> swap sequence. Callers hold opMu.
func (s *Session) load(ctx context.Context, file model.CatalogFile) error {
	epoch := s.epochs.Epoch()

	s.mu.Lock()
	f := file
	s.active = &f
	s.decryptedName = ""
	s.displayed = nil
	s.busy = true
	s.status = fmt.Sprintf("decrypting %s...", file.FileName)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	dec, err := s.backend.DecryptFile(ctx, file.FileName)
	if err != nil {
		s.setStatus(fmt.Sprintf("decryption failed for %s", file.FileName))
		return &DecryptError{FileName: file.FileName, Err: err}
	}

	data, err := s.backend.DownloadDecrypted(ctx, dec.DecryptedFilename)
	if err != nil {
		s.setStatus(fmt.Sprintf("failed to fetch decrypted content for %s", file.FileName))
		return &FetchError{FileName: file.FileName, Err: err}
	}

	handle, err := newHandle(dec.DecryptedFilename, data)
	if err != nil {
		s.setStatus("failed to materialize preview")
		return &FetchError{FileName: file.FileName, Err: err}
	}

	s.mu.Lock()
	if s.epochs.Epoch() != epoch {
		// The session was reset (sign-out) while this request was in
		// flight; the response is stale and must not be applied.
		s.mu.Unlock()
		return handle.Release()
	}
	if err := s.handles.install(handle); err != nil {
		s.mu.Unlock()
		return err
	}
	s.decryptedName = dec.DecryptedFilename
	s.displayed = handle
	s.status = fmt.Sprintf("opened %s", dec.DecryptedFilename)
	s.mu.Unlock()

	s.syncActive(ctx, file.FileName, epoch)
	return nil
}

// syncActive refreshes the catalog and re-points the active entry at the
// fresher record when one matches the same canonical name.
func (s *Session) syncActive(ctx context.Context, fileName, epoch string) {
	files, err := s.catalog.Refresh(ctx)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epochs.Epoch() != epoch {
		return
	}
	for i := range files {
		if files[i].FileName == fileName {
			f := files[i]
			s.active = &f
			return
		}
	}
}

// Download saves the decrypted bytes of the given file to dest. It
// reuses the cached handle when the selection already has one, so
// repeated downloads cost exactly one decrypt+fetch.
func (s *Session) Download(ctx context.Context, file model.CatalogFile, dest string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.hasLiveHandleFor(file.FileName) {
		if err := s.load(ctx, file); err != nil {
			return err
		}
	}

	s.mu.Lock()
	handle := s.handles.live()
	s.mu.Unlock()
	if handle == nil {
		return fmt.Errorf("preview not ready for %s", file.FileName)
	}
	return handle.SaveTo(dest)
}

func (s *Session) hasLiveHandleFor(fileName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handles.live() != nil && s.active != nil && s.active.FileName == fileName
}

// Active returns the currently selected catalog entry, if any
func (s *Session) Active() (model.CatalogFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return model.CatalogFile{}, false
	}
	return *s.active, true
}

// Displayed returns the handle the caller should render, nil while a
// new selection is loading or after a failure.
func (s *Session) Displayed() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed
}

// Status returns the last user-facing status message
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Busy reports whether a preview operation is running
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Reset clears the selection and best-effort releases the live handle.
// Called on sign-out and on session teardown.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.handles.release(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}
	s.active = nil
	s.decryptedName = ""
	s.displayed = nil
	s.status = ""
}

func (s *Session) setStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}
