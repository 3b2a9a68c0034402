package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/securevault/cli/pkg/model"
)

// Lister is the slice of the API client the catalog consumes
type Lister interface {
	ListFiles(ctx context.Context) ([]model.CatalogFile, error)
}

// TokenProvider gates refreshes: with no token the catalog clears
// locally and never issues the request.
type TokenProvider interface {
	Token() (string, bool)
	Epoch() string
}

// Mirror persists the catalog contents across CLI invocations. The
// replace is wholesale, matching the refresh semantics.
type Mirror interface {
	ReplaceFiles(files []model.CatalogFile) error
	LoadFiles() ([]model.CatalogFile, error)
}

// Catalog is the client's full-replace mirror of server-known files.
// A failed refresh leaves the previous contents intact.
type Catalog struct {
	lister Lister
	tokens TokenProvider
	mirror Mirror

	mu     sync.Mutex
	files  []model.CatalogFile
	status string
}

func New(lister Lister, tokens TokenProvider, mirror Mirror) *Catalog {
	c := &Catalog{
		lister: lister,
		tokens: tokens,
		mirror: mirror,
	}
	if mirror != nil {
		if files, err := mirror.LoadFiles(); err == nil {
			c.files = files
		}
	}
	return c
}

// Refresh re-syncs the mirror. Without a token it clears the catalog
// and returns an empty result with no network call; that is a soft
// precondition, not an error. On a failed request the previous contents
// persist and a status message is surfaced alongside the error.
func (c *Catalog) Refresh(ctx context.Context) ([]model.CatalogFile, error) {
	if _, ok := c.tokens.Token(); !ok {
		c.Clear()
		return nil, nil
	}

	epoch := c.tokens.Epoch()
	files, err := c.lister.ListFiles(ctx)
	if err != nil {
		c.mu.Lock()
		if c.tokens.Epoch() == epoch {
			c.status = fmt.Sprintf("failed to refresh files: %v", err)
		}
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokens.Epoch() != epoch {
		// Signed out (or re-signed-in) while the request was in flight;
		// the response belongs to a dead session.
		return nil, nil
	}
	c.files = files
	c.status = ""
	if c.mirror != nil {
		if err := c.mirror.ReplaceFiles(files); err != nil {
			c.status = fmt.Sprintf("failed to persist catalog: %v", err)
		}
	}
	return append([]model.CatalogFile(nil), files...), nil
}

// Files returns a copy of the current catalog contents
func (c *Catalog) Files() []model.CatalogFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.CatalogFile(nil), c.files...)
}

// ByName looks up a catalog entry by canonical filename
func (c *Catalog) ByName(fileName string) (model.CatalogFile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.files {
		if f.FileName == fileName {
			return f, true
		}
	}
	return model.CatalogFile{}, false
}

// Status returns the last refresh status message, empty when healthy
func (c *Catalog) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Clear wipes the catalog locally, including the persisted mirror
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = nil
	c.status = ""
	if c.mirror != nil {
		if err := c.mirror.ReplaceFiles(nil); err != nil {
			c.status = fmt.Sprintf("failed to clear catalog mirror: %v", err)
		}
	}
}
