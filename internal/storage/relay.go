package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxBytes is the upload size ceiling applied when no limit is
// configured.
const DefaultMaxBytes = 5 << 20

// allowedExtensions is the image set accepted by the relay.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// UploadError is a locally detected or storage-reported upload failure. Its
// message is safe to show next to the upload control.
type UploadError struct {
	Reason string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *UploadError) Unwrap() error { return e.Err }

// Relay validates uploaded files and forwards accepted ones to the object
// store. It keeps no record of which content row later references the
// returned URL.
type Relay struct {
	store    ObjectStore
	maxBytes int64
}

// NewRelay creates a Relay over the given store. maxBytes <= 0 selects
// DefaultMaxBytes.
func NewRelay(store ObjectStore, maxBytes int64) *Relay {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Relay{store: store, maxBytes: maxBytes}
}

// Upload validates the file and stores it under a generated key, returning
// the public URL. Size and type violations are rejected before the store is
// contacted.
func (r *Relay) Upload(ctx context.Context, category, filename string, size int64, src io.Reader) (string, error) {
	if size <= 0 {
		return "", &UploadError{Reason: "file is empty"}
	}
	if size > r.maxBytes {
		return "", &UploadError{Reason: fmt.Sprintf("file exceeds the %d MB limit", r.maxBytes>>20)}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return "", &UploadError{Reason: fmt.Sprintf("file type %q is not allowed", ext)}
	}

	key := objectKey(category, ext)
	if err := r.store.Put(ctx, category, key, src, size, contentType); err != nil {
		return "", &UploadError{Reason: "storage transfer failed", Err: err}
	}
	return r.store.PublicURL(category, key), nil
}

// objectKey builds a collision-resistant key from the current timestamp and
// a short random suffix, keeping the original extension.
func objectKey(category string, ext string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d-%s%s", time.Now().Unix(), suffix, ext)
}
