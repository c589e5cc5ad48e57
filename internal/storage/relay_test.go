//go:build unit

package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// mockStore records Put calls and can be told to fail.
type mockStore struct {
	putCalled   bool
	lastBucket  string
	lastKey     string
	errToReturn error
}

var _ ObjectStore = (*mockStore)(nil)

func (m *mockStore) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	m.putCalled = true
	m.lastBucket = bucket
	m.lastKey = key
	return m.errToReturn
}

func (m *mockStore) PublicURL(bucket, key string) string {
	return "/static/uploads/" + bucket + "/" + key
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	store := &mockStore{}
	relay := NewRelay(store, 5<<20)

	_, err := relay.Upload(context.Background(), "gallery", "big.png", 6<<20, strings.NewReader("x"))
	var uerr *UploadError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if store.putCalled {
		t.Error("storage was contacted for an oversized file")
	}
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	store := &mockStore{}
	relay := NewRelay(store, 5<<20)

	_, err := relay.Upload(context.Background(), "gallery", "payload.exe", 100, strings.NewReader("x"))
	var uerr *UploadError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if store.putCalled {
		t.Error("storage was contacted for a disallowed type")
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	store := &mockStore{}
	relay := NewRelay(store, 5<<20)

	if _, err := relay.Upload(context.Background(), "gallery", "empty.png", 0, strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty file")
	}
	if store.putCalled {
		t.Error("storage was contacted for an empty file")
	}
}

func TestUploadHappyPath(t *testing.T) {
	store := &mockStore{}
	relay := NewRelay(store, 0)

	url, err := relay.Upload(context.Background(), "covers", "Shot Of The Day.JPG", 1024, strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !store.putCalled {
		t.Fatal("storage was never contacted")
	}
	if store.lastBucket != "covers" {
		t.Errorf("bucket = %q", store.lastBucket)
	}
	if !strings.HasSuffix(store.lastKey, ".jpg") {
		t.Errorf("key %q should keep the lowered extension", store.lastKey)
	}
	if !strings.HasPrefix(url, "/static/uploads/covers/") {
		t.Errorf("url = %q", url)
	}
}

func TestUploadSurfacesStorageFailure(t *testing.T) {
	store := &mockStore{errToReturn: errors.New("disk full")}
	relay := NewRelay(store, 0)

	_, err := relay.Upload(context.Background(), "gallery", "pic.png", 10, strings.NewReader("x"))
	var uerr *UploadError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if uerr.Unwrap() == nil {
		t.Error("storage error not wrapped")
	}
}

func TestObjectKeysDiffer(t *testing.T) {
	if objectKey("g", ".png") == objectKey("g", ".png") {
		t.Error("two keys generated in the same instant should differ")
	}
}
