package model

// FileStatus represents the server-side state of a catalog file
type FileStatus string

const (
	StatusUploaded  FileStatus = "uploaded"
	StatusEncrypted FileStatus = "encrypted"
	StatusDecrypted FileStatus = "decrypted"
)

// CatalogFile is the canonical record for a server-known file.
// Server responses use inconsistent field names (file_name vs filename,
// size vs size_bytes); those are normalized into this record at the API
// boundary and never leak past it.
type CatalogFile struct {
	FileName   string     `json:"fileName"`
	SizeBytes  int64      `json:"sizeBytes"`
	UploadedAt string     `json:"uploadedAt"`
	Status     FileStatus `json:"status"`
	TagID      string     `json:"tagId,omitempty"`
}

// Tag is a server-defined file category
type Tag struct {
	TagID   string `json:"tag_id"`
	TagName string `json:"tag_name"`
}

// UploadedFile describes one file accepted by the upload endpoint
type UploadedFile struct {
	FileName  string `json:"fileName"`
	SizeBytes int64  `json:"sizeBytes"`
}
