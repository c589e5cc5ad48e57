package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"go-portfolio-app/internal/content"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("row not found")

// ErrConflict is returned when a write violates a unique constraint,
// typically a duplicate slug.
var ErrConflict = errors.New("unique constraint violated")

// Query narrows and orders a SelectAll call.
type Query struct {
	PublishedOnly bool
	FeaturedOnly  bool
	// OrderBy names the ordering column. Empty selects the table default:
	// sort_order ascending for ordered tables, created_at descending
	// otherwise.
	OrderBy string
	Desc    bool
}

// Gateway provides table-scoped CRUD over the relational store. Table and
// column identifiers are always taken from the static schema registry, never
// from request input.
type Gateway struct {
	db *sqlx.DB
}

// NewGateway creates a Gateway over the given connection pool.
func NewGateway(db *sqlx.DB) *Gateway {
	return &Gateway{db: db}
}

func columns(s *content.Schema) []string {
	cols := []string{"id"}
	for _, f := range s.Fields {
		cols = append(cols, f.Name)
	}
	if s.Ordered {
		cols = append(cols, "sort_order")
	}
	return append(cols, "created_at")
}

// SelectAll fetches every row of the table matching the query, coerced per
// the schema's field kinds.
func (g *Gateway) SelectAll(ctx context.Context, s *content.Schema, q Query) ([]Row, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(columns(s), ", "), s.Table)

	var where []string
	if q.PublishedOnly && s.HasPublished {
		where = append(where, "published = 1")
	}
	if q.FeaturedOnly && s.HasFeatured {
		where = append(where, "featured = 1")
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}

	orderBy, desc := q.OrderBy, q.Desc
	if orderBy == "" {
		if s.Ordered {
			orderBy, desc = "sort_order", false
		} else {
			orderBy, desc = "created_at", true
		}
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", orderBy, dir)

	rows, err := g.db.QueryxContext(ctx, sb.String())
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", s.Table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		dest := map[string]interface{}{}
		if err := rows.MapScan(dest); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", s.Table, err)
		}
		out = append(out, coerce(s, dest))
	}
	return out, rows.Err()
}

// SelectOne fetches a single row matched on the given column. The match
// column must be either "id" or "slug".
func (g *Gateway) SelectOne(ctx context.Context, s *content.Schema, match string, value any) (Row, error) {
	if match != "id" && match != "slug" {
		return nil, fmt.Errorf("unsupported match column %q", match)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", strings.Join(columns(s), ", "), s.Table, match)
	row := g.db.QueryRowxContext(ctx, query, value)
	dest := map[string]interface{}{}
	if err := row.MapScan(dest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select one from %s: %w", s.Table, err)
	}
	return coerce(s, dest), nil
}

// Insert writes a new row and returns its store-assigned id. Duplicate-key
// rejections surface as ErrConflict.
func (g *Gateway) Insert(ctx context.Context, s *content.Schema, values map[string]any) (int64, error) {
	cols, args := make([]string, 0, len(values)), make([]any, 0, len(values))
	for _, name := range writableColumns(s) {
		v, ok := values[name]
		if !ok {
			continue
		}
		cols = append(cols, name)
		args = append(args, serialize(s, name, v))
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.Table, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	res, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isConflict(err) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("failed to insert into %s: %w", s.Table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id for %s: %w", s.Table, err)
	}
	return id, nil
}

// Update replaces the editable columns of the row with the given id.
// The id and creation timestamp are never touched.
func (g *Gateway) Update(ctx context.Context, s *content.Schema, id int64, values map[string]any) error {
	sets, args := make([]string, 0, len(values)), make([]any, 0, len(values)+1)
	for _, name := range writableColumns(s) {
		v, ok := values[name]
		if !ok {
			continue
		}
		sets = append(sets, name+" = ?")
		args = append(args, serialize(s, name, v))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", s.Table, strings.Join(sets, ", "))
	res, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isConflict(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to update %s: %w", s.Table, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row with the given id. Deletion is physical.
func (g *Gateway) Delete(ctx context.Context, s *content.Schema, id int64) error {
	res, err := g.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.Table), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", s.Table, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MaxOrder returns the highest sort_order among the table's rows, or -1
// when the table is empty, so that max+1 starts new sequences at 0.
func (g *Gateway) MaxOrder(ctx context.Context, s *content.Schema) (int64, error) {
	var max int64
	query := fmt.Sprintf("SELECT COALESCE(MAX(sort_order), -1) FROM %s", s.Table)
	if err := g.db.GetContext(ctx, &max, query); err != nil {
		return 0, fmt.Errorf("failed to get max order for %s: %w", s.Table, err)
	}
	return max, nil
}

// Count returns the number of rows in the table.
func (g *Gateway) Count(ctx context.Context, s *content.Schema) (int64, error) {
	var n int64
	if err := g.db.GetContext(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.Table)); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.Table, err)
	}
	return n, nil
}

func writableColumns(s *content.Schema) []string {
	cols := make([]string, 0, len(s.Fields)+1)
	for _, f := range s.Fields {
		cols = append(cols, f.Name)
	}
	if s.Ordered {
		cols = append(cols, "sort_order")
	}
	return cols
}

// serialize converts normalized values to their stored representation.
// Comma-kind lists are stored comma-joined, line-kind lists newline-joined;
// both survive the read-side split unchanged.
func serialize(s *content.Schema, name string, v any) any {
	l, ok := v.([]string)
	if !ok {
		return v
	}
	if f := s.Field(name); f != nil && f.Kind == content.KindLines {
		return strings.Join(l, "\n")
	}
	return strings.Join(l, ",")
}

// coerce converts driver scan values into Row values typed per the schema.
func coerce(s *content.Schema, dest map[string]interface{}) Row {
	row := make(Row, len(dest))
	for name, v := range dest {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		switch name {
		case "id", "sort_order":
			row[name] = asInt(v)
			continue
		case "created_at":
			row[name] = v
			continue
		}
		f := s.Field(name)
		if f == nil {
			row[name] = v
			continue
		}
		switch f.Kind {
		case content.KindList:
			row[name] = content.SplitList(asString(v))
		case content.KindLines:
			row[name] = content.SplitLines(asString(v))
		case content.KindBool:
			row[name] = asBool(v)
		case content.KindInt:
			row[name] = asInt(v)
		default:
			row[name] = asString(v)
		}
	}
	return row
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case string:
		return b == "1" || b == "true"
	}
	return false
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}

// isConflict reports whether a driver error is a unique-constraint
// violation. MySQL reports error 1062 "Duplicate entry"; SQLite reports
// "UNIQUE constraint failed".
func isConflict(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
