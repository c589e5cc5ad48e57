package data

import (
	"time"
)

// Row is one record fetched through the Gateway, keyed by column name.
// Values are already coerced per the table schema: list columns are
// []string, flag columns bool, sort_order int64.
type Row map[string]any

// ID returns the row's primary key.
func (r Row) ID() int64 {
	switch v := r["id"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Str returns the named column as a string, or "" when absent.
func (r Row) Str(name string) string {
	if s, ok := r[name].(string); ok {
		return s
	}
	return ""
}

// Bool returns the named column as a bool, or false when absent.
func (r Row) Bool(name string) bool {
	if b, ok := r[name].(bool); ok {
		return b
	}
	return false
}

// List returns the named column as a string slice, or nil when absent.
func (r Row) List(name string) []string {
	if l, ok := r[name].([]string); ok {
		return l
	}
	return nil
}

// Int returns the named column as an int64, or 0 when absent.
func (r Row) Int(name string) int64 {
	if n, ok := r[name].(int64); ok {
		return n
	}
	return 0
}

// SortOrder returns the row's explicit ordering value for ordered tables.
func (r Row) SortOrder() int64 {
	if n, ok := r["sort_order"].(int64); ok {
		return n
	}
	return 0
}

// CreatedAt returns the row's creation timestamp, zero when absent or
// unparsable.
func (r Row) CreatedAt() time.Time {
	switch v := r["created_at"].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// Title returns the row's human title.
func (r Row) Title() string { return r.Str("title") }

// Slug returns the row's URL slug.
func (r Row) Slug() string { return r.Str("slug") }

// Tags returns the row's tag list.
func (r Row) Tags() []string { return r.List("tags") }

// Published reports whether the row is publicly visible.
func (r Row) Published() bool { return r.Bool("published") }

// Featured reports whether the row is pinned as featured.
func (r Row) Featured() bool { return r.Bool("featured") }
