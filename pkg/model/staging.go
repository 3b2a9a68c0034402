package model

// PendingUploadItem is one staged, not-yet-submitted file.
//
// ID is a fingerprint of (name, size, mtime) and is only meaningful for
// in-session deduplication. TagID and Expiry are the effective metadata;
// an empty string means unset. The override flags mark values that were
// set explicitly on this item and must survive later global cascades.
type PendingUploadItem struct {
	ID               string `json:"id"`
	FilePath         string `json:"filePath"`
	FileName         string `json:"fileName"`
	SizeBytes        int64  `json:"sizeBytes"`
	ModifiedAt       int64  `json:"modifiedAt"` // Unix micros
	TagID            string `json:"tagId"`
	Expiry           string `json:"expiry"` // local datetime, "2006-01-02T15:04"
	TagOverridden    bool   `json:"tagOverridden"`
	ExpiryOverridden bool   `json:"expiryOverridden"`
}

// GlobalUploadDefaults holds the tag/expiry applied to staged items.
// When ApplyToAll is set, default changes cascade to every staged item
// whose matching override flag is false.
type GlobalUploadDefaults struct {
	TagID      string `json:"tagId"`
	Expiry     string `json:"expiry"`
	ApplyToAll bool   `json:"applyToAll"`
}
