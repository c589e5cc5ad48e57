//go:build unit

package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go-portfolio-app/internal/cache"
	"go-portfolio-app/internal/middleware"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(filepath.Join(t.TempDir(), "cache.db"), time.Minute)
	if err != nil {
		t.Fatalf("cache.New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPageCacheServesSecondAnonymousRequest(t *testing.T) {
	c := newTestCache(t)
	hits := 0
	wrapped := PageCache(c, newTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("rendered page"))
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, httptest.NewRequest("GET", "/blog", nil))
		if rec.Body.String() != "rendered page" {
			t.Fatalf("request %d body = %q", i, rec.Body.String())
		}
	}
	if hits != 1 {
		t.Errorf("handler hits = %d, want 1 (second request should come from cache)", hits)
	}
}

func TestPageCacheSkipsSignedInUsers(t *testing.T) {
	c := newTestCache(t)
	hits := 0
	wrapped := PageCache(c, newTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("fresh"))
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/blog", nil)
		req = req.WithContext(middleware.SetUserInfo(req.Context(), &middleware.UserInfo{Subject: "editor@example.com"}))
		wrapped.ServeHTTP(httptest.NewRecorder(), req)
	}
	if hits != 2 {
		t.Errorf("handler hits = %d, want 2 (editors bypass the cache)", hits)
	}
}

func TestPageCacheSkipsNonGet(t *testing.T) {
	c := newTestCache(t)
	hits := 0
	wrapped := PageCache(c, newTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	for i := 0; i < 2; i++ {
		wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/blog", nil))
	}
	if hits != 2 {
		t.Errorf("handler hits = %d, want 2", hits)
	}
}

func TestPageCacheIgnoresErrorResponses(t *testing.T) {
	c := newTestCache(t)
	hits := 0
	wrapped := PageCache(c, newTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}))

	for i := 0; i < 2; i++ {
		wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/blog/nope", nil))
	}
	if hits != 2 {
		t.Errorf("handler hits = %d, want 2 (404s must not be cached)", hits)
	}
}
