// Package storage holds the object-storage abstraction and the upload
// relay that validates files before they reach it.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ObjectStore abstracts the storage backend: store bytes under a key,
// resolve the key's public URL.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error
	PublicURL(bucket, key string) string
}

// DiskStore is an ObjectStore writing to the local filesystem and serving
// files back through the static file route.
type DiskStore struct {
	baseDir string
	baseURL string
}

// NewDiskStore creates a DiskStore rooted at baseDir. Stored objects are
// addressable under baseURL, e.g. "/uploads".
func NewDiskStore(baseDir, baseURL string) *DiskStore {
	return &DiskStore{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Put writes the object to disk, creating bucket directories as needed.
func (d *DiskStore) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	dst := filepath.Join(d.baseDir, filepath.FromSlash(bucket), filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// PublicURL resolves the serving URL for a stored object.
func (d *DiskStore) PublicURL(bucket, key string) string {
	return d.baseURL + "/" + path.Join(bucket, key)
}
