package handler

import (
	"bytes"
	"net/http"

	"go-portfolio-app/internal/cache"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
)

// cachedResponseWriter buffers a response so it can be stored after a
// successful render.
type cachedResponseWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *cachedResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *cachedResponseWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// PageCache serves public GET responses from the route cache. Only
// anonymous requests participate: signed-in editors always see a fresh
// render, and only 200 responses are stored. Cache failures are logged
// and the request proceeds uncached.
func PageCache(c *cache.Cache, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || middleware.GetUserInfo(r.Context()).Authenticated() {
				next.ServeHTTP(w, r)
				return
			}

			// Keyed on path only: public pages must not vary by query
			// string (tag filtering happens client-side).
			route := r.URL.Path
			body, err := c.Get(route)
			if err != nil {
				log.Error(err, "cache read failed")
			}
			if body != nil {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.Write(body)
				return
			}

			cw := &cachedResponseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(cw, r)

			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				if err := c.Set(route, cw.buf.Bytes()); err != nil {
					log.Error(err, "cache write failed")
				}
			}
		})
	}
}
