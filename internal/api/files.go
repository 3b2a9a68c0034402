package api

import (
	"context"
	"fmt"

	"github.com/securevault/cli/pkg/model"
)

// fileEntry mirrors the wire shape of a server file record. The backend
// emits either file_name or (legacy) filename, and either size or
// size_bytes; normalization into model.CatalogFile happens here and
// nowhere else.
type fileEntry struct {
	FileName   string           `json:"file_name"`
	AltName    string           `json:"filename"`
	Size       int64            `json:"size"`
	SizeBytes  int64            `json:"size_bytes"`
	UploadedAt string           `json:"uploaded_at"`
	Status     model.FileStatus `json:"status"`
	TagID      string           `json:"tag_id"`
}

func (e fileEntry) normalize() model.CatalogFile {
	name := e.FileName
	if name == "" {
		name = e.AltName
	}
	size := e.SizeBytes
	if size == 0 {
		size = e.Size
	}
	status := e.Status
	if status == "" {
		status = model.StatusUploaded
	}
	return model.CatalogFile{
		FileName:   name,
		SizeBytes:  size,
		UploadedAt: e.UploadedAt,
		Status:     status,
		TagID:      e.TagID,
	}
}

// ListFiles fetches all files known to the server for the current account
func (c *Client) ListFiles(ctx context.Context) ([]model.CatalogFile, error) {
	var result struct {
		Files []fileEntry `json:"files"`
	}
	r, err := c.restClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/files")

	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	if r.IsError() {
		return nil, newApiError(r, "failed to fetch files")
	}

	files := make([]model.CatalogFile, 0, len(result.Files))
	for _, entry := range result.Files {
		files = append(files, entry.normalize())
	}
	return files, nil
}

// ListTags fetches the server-defined tag set
func (c *Client) ListTags(ctx context.Context) ([]model.Tag, error) {
	var result struct {
		Tags []model.Tag `json:"tags"`
	}
	r, err := c.restClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/tags")

	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	if r.IsError() {
		return nil, newApiError(r, "failed to fetch tags")
	}

	return result.Tags, nil
}
