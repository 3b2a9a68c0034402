package model

// WatchState stores the persistent state of a folder watcher
type WatchState struct {
	WatchPath     string `json:"watchPath"`     // Absolute path being watched
	TagID         string `json:"tagId"`         // Tag applied to auto-submitted files
	Expiry        string `json:"expiry"`        // Expiry applied to auto-submitted files
	DebounceMs    int    `json:"debounceMs"`    // Debounce delay in milliseconds
	StartedAt     int64  `json:"startedAt"`     // Unix timestamp (seconds)
	LastProcessed int64  `json:"lastProcessed"` // Unix timestamp (seconds)
}

// FileProcessStatus represents the processing status of a watched file
type FileProcessStatus int

const (
	StatusProcessing FileProcessStatus = iota
	StatusSubmitted
	StatusDuplicate
	StatusFailed
)

func (s FileProcessStatus) String() string {
	switch s {
	case StatusProcessing:
		return "processing"
	case StatusSubmitted:
		return "submitted"
	case StatusDuplicate:
		return "duplicate"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProcessedFile tracks files that have been handled by the watcher
type ProcessedFile struct {
	FilePath    string            `json:"filePath"`    // Absolute path of the file
	Fingerprint string            `json:"fingerprint"` // Staged-item fingerprint
	ProcessedAt int64             `json:"processedAt"` // Unix timestamp (seconds)
	Status      FileProcessStatus `json:"status"`
	Error       string            `json:"error,omitempty"`
}
