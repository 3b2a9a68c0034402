package preview

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Handle owns the materialized bytes of one decrypted preview. The
// session holds at most one live handle at a time; release-before-install
// ordering is enforced by the slot, and releasing twice is an error.
type Handle struct {
	name     string
	path     string
	size     int64
	released bool
}

// newHandle writes the decrypted bytes to a private temp file and wraps
// it in a handle. The file is removed on Release.
func newHandle(name string, data []byte) (*Handle, error) {
	dir := filepath.Join(os.TempDir(), "securevault-preview")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create preview dir: %w", err)
	}
	path := filepath.Join(dir, uuid.NewString()+"-"+name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to materialize preview: %w", err)
	}
	return &Handle{name: name, path: path, size: int64(len(data))}, nil
}

// Name returns the decrypted file name
func (h *Handle) Name() string { return h.name }

// Path returns the on-disk location of the materialized preview
func (h *Handle) Path() string { return h.path }

// Size returns the decrypted size in bytes
func (h *Handle) Size() int64 { return h.size }

// Release frees the materialized preview. Calling it a second time is an
// invariant violation and returns an error.
func (h *Handle) Release() error {
	if h.released {
		return fmt.Errorf("preview handle for %s already released", h.name)
	}
	h.released = true
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release preview for %s: %w", h.name, err)
	}
	return nil
}

// SaveTo copies the materialized preview to a destination path
func (h *Handle) SaveTo(dest string) error {
	if h.released {
		return fmt.Errorf("preview handle for %s already released", h.name)
	}
	src, err := os.Open(h.path)
	if err != nil {
		return fmt.Errorf("failed to open preview: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to save preview to %s: %w", dest, err)
	}
	return nil
}

// slot is the single-owner container for the live handle. Installing a
// new handle releases the previous one first; exactly zero or one live
// handle exists at any instant.
type slot struct {
	handle *Handle
}

func (s *slot) install(h *Handle) error {
	if s.handle != nil {
		if err := s.handle.Release(); err != nil {
			// The old handle is unusable either way; drop it and free
			// the new one so its temp file does not leak.
			s.handle = nil
			if rerr := h.Release(); rerr != nil {
				fmt.Printf("Warning: %v\n", rerr)
			}
			return err
		}
	}
	s.handle = h
	return nil
}

func (s *slot) release() error {
	if s.handle == nil {
		return nil
	}
	err := s.handle.Release()
	s.handle = nil
	return err
}

func (s *slot) live() *Handle {
	return s.handle
}
