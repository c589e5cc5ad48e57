package content

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError reports the first required field missing from a submission.
type ValidationError struct {
	Table string
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("table %s: required field %q is missing", e.Table, e.Field)
}

// DeriveSlug converts a title to a URL-safe slug: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, no leading or
// trailing hyphen.
func DeriveSlug(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	hyphen := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SplitList splits a comma-separated string into trimmed non-empty entries.
// Empty input yields an empty slice, never a single empty entry.
func SplitList(s string) []string {
	return splitOn(s, ",")
}

// SplitLines splits a newline-separated string into trimmed non-empty entries.
func SplitLines(s string) []string {
	return splitOn(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func splitOn(s, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Normalize coerces a raw form submission into typed values keyed by column
// name, following each field's declared kind. Unknown form keys are ignored;
// absent checkbox fields become false.
func (s *Schema) Normalize(form url.Values) map[string]any {
	values := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		raw := form.Get(f.Name)
		switch f.Kind {
		case KindBool:
			_, present := form[f.Name]
			values[f.Name] = present && raw != "" && raw != "false"
		case KindList:
			values[f.Name] = SplitList(raw)
		case KindLines:
			values[f.Name] = SplitLines(raw)
		case KindInt:
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				n = 0
			}
			values[f.Name] = n
		default:
			values[f.Name] = strings.TrimSpace(raw)
		}
	}
	return values
}

// Validate checks the schema's required subset against normalized values and
// returns a ValidationError naming the first missing field. A required list
// must contain at least one entry.
func (s *Schema) Validate(values map[string]any) error {
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		switch v := values[f.Name].(type) {
		case string:
			if v == "" {
				return &ValidationError{Table: s.Table, Field: f.Name}
			}
		case []string:
			if len(v) == 0 {
				return &ValidationError{Table: s.Table, Field: f.Name}
			}
		case nil:
			return &ValidationError{Table: s.Table, Field: f.Name}
		}
	}
	return nil
}
