package pipeline

import "fmt"

// ValidationError means the staged set was rejected before any network
// call. FileName identifies the first offending file when applicable.
type ValidationError struct {
	FileName string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.FileName != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.FileName)
	}
	return e.Reason
}

// UploadError means the multi-file upload call failed
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// EncryptError means one encrypt call in the sequential phase failed.
// Files before Index are already uploaded and encrypted server-side;
// the pipeline halts without rolling them back.
type EncryptError struct {
	FileName string
	Index    int
	Err      error
}

func (e *EncryptError) Error() string {
	return fmt.Sprintf("failed to encrypt %s: %v", e.FileName, e.Err)
}

func (e *EncryptError) Unwrap() error { return e.Err }
