// Package cache provides a SQLite-backed store for rendered public routes.
// Authoring writes invalidate affected routes; invalidation is best-effort
// and not transactional with the content write.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Cache provides a SQLite-based caching mechanism keyed by route path.
type Cache struct {
	db  *sqlx.DB
	ttl time.Duration
}

// New creates a new Cache instance. It opens the SQLite database at the
// given file path and ensures the cache table is created.
func New(filePath string, ttl time.Duration) (*Cache, error) {
	db, err := sqlx.Connect("sqlite", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite cache: %w", err)
	}

	// For a cache, WAL mode is generally better for concurrency.
	_, err = db.Exec("PRAGMA journal_mode=WAL;")
	if err != nil {
		return nil, fmt.Errorf("failed to set WAL mode on sqlite cache: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS cache (
		route TEXT PRIMARY KEY,
		body BLOB,
		expires_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_expires_at ON cache (expires_at);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Get retrieves the cached rendering of a route. It returns nil if the
// route is not cached or the entry is expired.
func (c *Cache) Get(route string) ([]byte, error) {
	var item struct {
		Body      []byte `db:"body"`
		ExpiresAt int64  `db:"expires_at"`
	}
	query := `SELECT body, expires_at FROM cache WHERE route = ?`
	err := c.db.Get(&item, query, route)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found is not an error for a cache miss.
		}
		return nil, fmt.Errorf("failed to get route from cache: %w", err)
	}

	// Check for expiration
	if time.Now().Unix() > item.ExpiresAt {
		// Entry has expired, delete it from the cache (best effort)
		_ = c.InvalidateRoute(route)
		return nil, nil // Treat as a cache miss
	}

	return item.Body, nil
}

// Set stores the rendered body of a route with the configured TTL.
func (c *Cache) Set(route string, body []byte) error {
	expiresAt := time.Now().Add(c.ttl).Unix()
	query := `INSERT OR REPLACE INTO cache (route, body, expires_at) VALUES (?, ?, ?)`
	_, err := c.db.Exec(query, route, body, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set route in cache: %w", err)
	}
	return nil
}

// InvalidateRoute removes a single route from the cache.
func (c *Cache) InvalidateRoute(route string) error {
	query := `DELETE FROM cache WHERE route = ?`
	_, err := c.db.Exec(query, route)
	if err != nil {
		return fmt.Errorf("failed to invalidate cached route: %w", err)
	}
	return nil
}

// InvalidatePrefix removes a route and everything nested under it, so that
// invalidating "/blog" also drops "/blog/some-post".
func (c *Cache) InvalidatePrefix(route string) error {
	query := `DELETE FROM cache WHERE route = ? OR route LIKE ?`
	_, err := c.db.Exec(query, route, route+"/%")
	if err != nil {
		return fmt.Errorf("failed to invalidate cached prefix: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
