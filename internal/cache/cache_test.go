//go:build unit

package cache

import (
	"testing"
	"time"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New("file::memory:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheSetGet(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("/blog", []byte("<html>blog</html>")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	body, err := c.Get("/blog")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "<html>blog</html>" {
		t.Errorf("body = %q", body)
	}
}

func TestCacheMiss(t *testing.T) {
	c := newTestCache(t)
	body, err := c.Get("/never-set")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if body != nil {
		t.Errorf("expected nil on miss, got %q", body)
	}
}

func TestCacheExpiry(t *testing.T) {
	c, err := New("file::memory:", -time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if err := c.Set("/", []byte("stale")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	body, err := c.Get("/")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if body != nil {
		t.Errorf("expired entry served: %q", body)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := newTestCache(t)
	for _, route := range []string{"/blog", "/blog/first-post", "/projects"} {
		if err := c.Set(route, []byte(route)); err != nil {
			t.Fatalf("Set %s: %v", route, err)
		}
	}

	if err := c.InvalidatePrefix("/blog"); err != nil {
		t.Fatalf("InvalidatePrefix: %v", err)
	}

	for _, route := range []string{"/blog", "/blog/first-post"} {
		if body, _ := c.Get(route); body != nil {
			t.Errorf("route %s still cached after invalidation", route)
		}
	}
	if body, _ := c.Get("/projects"); body == nil {
		t.Error("unrelated route was invalidated")
	}
}
