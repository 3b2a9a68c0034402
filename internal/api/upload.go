package api

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/securevault/cli/pkg/model"
)

// UploadItemMetadata is one entry of the metadata array sent alongside the
// file parts. Entries are index-aligned with the file parts.
type UploadItemMetadata struct {
	Filename   string `json:"filename"`
	TagID      string `json:"tag_id"`
	ExpiryTime string `json:"expiry_time"`
}

// uploadedEntry mirrors the wire shape of an upload response item.
// The server reports both file_name and stored_filename; file_name wins.
type uploadedEntry struct {
	FileName       string `json:"file_name"`
	StoredFilename string `json:"stored_filename"`
	Size           int64  `json:"size"`
	SizeBytes      int64  `json:"size_bytes"`
}

func (e uploadedEntry) normalize() model.UploadedFile {
	name := e.FileName
	if name == "" {
		name = e.StoredFilename
	}
	size := e.SizeBytes
	if size == 0 {
		size = e.Size
	}
	return model.UploadedFile{FileName: name, SizeBytes: size}
}

// UploadMultiple posts every staged file in one multipart request together
// with the index-aligned metadata array. The returned descriptors carry the
// canonical server-side names used by later encrypt calls.
func (c *Client) UploadMultiple(ctx context.Context, paths []string, metadata []UploadItemMetadata) ([]model.UploadedFile, error) {
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upload metadata: %w", err)
	}

	req := c.restClient.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{"metadata": string(metaJSON)})

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		req.SetFileReader("files", filepath.Base(path), f)
	}

	var result struct {
		Files []uploadedEntry `json:"files"`
	}
	r, err := req.SetResult(&result).Post("/upload/multiple")

	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}

	if r.IsError() {
		return nil, newApiError(r, "upload failed")
	}

	files := make([]model.UploadedFile, 0, len(result.Files))
	for _, entry := range result.Files {
		files = append(files, entry.normalize())
	}
	return files, nil
}
