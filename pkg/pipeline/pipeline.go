package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/securevault/cli/internal/api"
	"github.com/securevault/cli/pkg/model"
)

// Backend is the slice of the API client the pipeline drives
type Backend interface {
	UploadMultiple(ctx context.Context, paths []string, metadata []api.UploadItemMetadata) ([]model.UploadedFile, error)
	EncryptFile(ctx context.Context, fileName string) (*api.EncryptResponse, error)
}

// CatalogRefresher re-syncs the catalog mirror after a full success
type CatalogRefresher interface {
	Refresh(ctx context.Context) ([]model.CatalogFile, error)
}

// StagingClearer empties the staged set after a full success
type StagingClearer interface {
	Clear()
}

// Result reports a fully successful submission
type Result struct {
	Uploaded []model.UploadedFile
	// Selected is the first uploaded file, promoted to the active
	// selection for the caller.
	Selected model.UploadedFile
	Message  string
}

// Pipeline validates the staged set, uploads every file in one request,
// then encrypts each uploaded file strictly in sequence. A submission is
// single-flight: a second Submit while one is running fails fast.
type Pipeline struct {
	backend Backend
	catalog CatalogRefresher
	staging StagingClearer
	mu      sync.Mutex
}

func New(backend Backend, catalog CatalogRefresher, staging StagingClearer) *Pipeline {
	return &Pipeline{
		backend: backend,
		catalog: catalog,
		staging: staging,
	}
}

// Busy reports whether a submission is currently running
func (p *Pipeline) Busy() bool {
	if p.mu.TryLock() {
		p.mu.Unlock()
		return false
	}
	return true
}

// Submit drives the staged set through upload, sequential encryption,
// and catalog refresh. Validation failures never reach the network.
//
// The encrypt loop is deliberately sequential: each call completes
// before the next begins, so a failure identifies exactly one file and
// the earlier files in the batch stay uploaded server-side with no
// rollback.
func (p *Pipeline) Submit(ctx context.Context, items []model.PendingUploadItem) (*Result, error) {
	if !p.mu.TryLock() {
		return nil, fmt.Errorf("a submission is already in progress")
	}
	defer p.mu.Unlock()

	metadata, err := validate(items)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(items))
	for _, item := range items {
		paths = append(paths, item.FilePath)
	}

	uploaded, err := p.backend.UploadMultiple(ctx, paths, metadata)
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	if len(uploaded) == 0 {
		return nil, &UploadError{Err: fmt.Errorf("server accepted the upload but returned no files")}
	}

	for i, f := range uploaded {
		if _, err := p.backend.EncryptFile(ctx, f.FileName); err != nil {
			return nil, &EncryptError{FileName: f.FileName, Index: i, Err: err}
		}
	}

	if _, err := p.catalog.Refresh(ctx); err != nil {
		// The submission itself succeeded; a failed refresh only means
		// the mirror is momentarily stale.
		fmt.Printf("Warning: catalog refresh failed: %v\n", err)
	}
	p.staging.Clear()

	return &Result{
		Uploaded: uploaded,
		Selected: uploaded[0],
		Message:  fmt.Sprintf("uploaded and encrypted %d file(s)", len(uploaded)),
	}, nil
}

// validate rejects the staged set before any network call and builds the
// index-aligned metadata array for the upload request.
func validate(items []model.PendingUploadItem) ([]api.UploadItemMetadata, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Reason: "no files staged for upload"}
	}
	if len(items) > model.MaxUploadFiles {
		return nil, &ValidationError{Reason: fmt.Sprintf("at most %d files can be submitted at once", model.MaxUploadFiles)}
	}

	metadata := make([]api.UploadItemMetadata, 0, len(items))
	for _, item := range items {
		if item.TagID == "" {
			return nil, &ValidationError{FileName: item.FileName, Reason: "missing tag"}
		}
		if item.Expiry == "" {
			return nil, &ValidationError{FileName: item.FileName, Reason: "missing expiry time"}
		}
		normalized := NormalizeExpiry(item.Expiry)
		if normalized == "" {
			return nil, &ValidationError{FileName: item.FileName, Reason: "invalid expiry time"}
		}
		metadata = append(metadata, api.UploadItemMetadata{
			Filename:   item.FileName,
			TagID:      item.TagID,
			ExpiryTime: normalized,
		})
	}
	return metadata, nil
}
