// Package storage implements the filesystem blob store for uploaded resumes.
package storage

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"applytrack/internal/observability"

	"github.com/google/uuid"
)

// BlobStore writes and reads uploaded files under a single directory, keyed
// by generated stored filenames. Stored names never contain path separators.
type BlobStore struct {
	dir string
}

// NewBlobStore returns a BlobStore rooted at dir, creating it if needed.
func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &BlobStore{dir: dir}, nil
}

// Dir returns the blob directory root.
func (b *BlobStore) Dir() string {
	return b.dir
}

// GenerateStoredName builds a collision-resistant stored filename that keeps
// the original extension so content-type sniffing has something to work with.
func GenerateStoredName(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalFilename)))
	if len(ext) > 10 {
		ext = ""
	}
	return uuid.New().String() + ext
}

// Write persists content under storedName.
func (b *BlobStore) Write(storedName string, content []byte) error {
	path, err := b.safePath(storedName)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write blob %q: %w", storedName, err)
	}
	observability.BlobWrites.Inc()
	return nil
}

// Read returns the content stored under storedName.
func (b *BlobStore) Read(storedName string) ([]byte, error) {
	path, err := b.safePath(storedName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Exists reports whether a blob is present for storedName.
func (b *BlobStore) Exists(storedName string) bool {
	path, err := b.safePath(storedName)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(path)
	return statErr == nil
}

// Remove deletes the blob for storedName. A missing blob is not an error;
// the metadata row is authoritative and the file may already be gone.
func (b *BlobStore) Remove(storedName string) error {
	path, err := b.safePath(storedName)
	if err != nil {
		observability.BlobDeletes.WithLabelValues("error").Inc()
		return err
	}
	switch removeErr := os.Remove(path); {
	case removeErr == nil:
		observability.BlobDeletes.WithLabelValues("removed").Inc()
		return nil
	case os.IsNotExist(removeErr):
		observability.BlobDeletes.WithLabelValues("missing").Inc()
		return nil
	default:
		observability.BlobDeletes.WithLabelValues("error").Inc()
		return fmt.Errorf("remove blob %q: %w", storedName, removeErr)
	}
}

// SniffContentType detects the content type of the blob's leading bytes.
func SniffContentType(content []byte) string {
	return http.DetectContentType(content)
}

// safePath resolves storedName inside the blob directory, rejecting anything
// that could escape it.
func (b *BlobStore) safePath(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) || strings.Contains(storedName, "..") {
		return "", fmt.Errorf("invalid stored filename %q", storedName)
	}
	return filepath.Join(b.dir, storedName), nil
}
