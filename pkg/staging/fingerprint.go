package staging

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/blake2b-simd"
	"github.com/securevault/cli/pkg/model"
)

// Fingerprint derives the staged-item id from (name, size, mtime).
// It is stable across CLI invocations for an unchanged file but is only
// used for in-session deduplication, not global uniqueness.
func Fingerprint(name string, sizeBytes int64, modifiedAtMicros int64) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%s|%d|%d", name, sizeBytes, modifiedAtMicros)))
	return hex.EncodeToString(sum[:16])
}

// DescribeFile stats a file on disk and builds the staged-item skeleton
// (id, name, size, mtime). Tag/expiry seeding is the manager's job.
func DescribeFile(path string) (model.PendingUploadItem, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.PendingUploadItem{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return model.PendingUploadItem{}, fmt.Errorf("path is a directory: %s", path)
	}

	name := filepath.Base(path)
	modified := info.ModTime().UnixMicro()
	return model.PendingUploadItem{
		ID:         Fingerprint(name, info.Size(), modified),
		FilePath:   path,
		FileName:   name,
		SizeBytes:  info.Size(),
		ModifiedAt: modified,
	}, nil
}
