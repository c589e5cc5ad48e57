package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
)

// View represents a collection of parsed HTML templates.
type View struct {
	templates map[string]*template.Template
}

// funcs are the helpers available to every template.
var funcs = template.FuncMap{
	"markdown": Markdown,
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	"join": func(items []string) string {
		return strings.Join(items, ", ")
	},
	// fieldValue renders a stored column back into its form widget: comma
	// lists rejoin with commas, line lists with newlines.
	"fieldValue": func(row data.Row, f content.Field) string {
		if row == nil {
			return ""
		}
		switch f.Kind {
		case content.KindList:
			return strings.Join(row.List(f.Name), ", ")
		case content.KindLines:
			return strings.Join(row.List(f.Name), "\n")
		case content.KindInt:
			return strconv.FormatInt(row.Int(f.Name), 10)
		default:
			return row.Str(f.Name)
		}
	},
}

// New creates a new View by parsing all templates from the given filesystem.
func New(templateFS fs.FS) (*View, error) {
	v := &View{
		templates: make(map[string]*template.Template),
	}

	// First, get all the layout files
	layouts, err := fs.Glob(templateFS, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}

	// Then, get all the page files
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	// For each page, parse it with the layout files
	for _, page := range pages {
		files := append(append([]string{}, layouts...), page)
		// The name of the template is the base name of the page file
		name := filepath.Base(page)
		// Parse the files
		ts, err := template.New(name).Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		v.templates[name] = ts
	}

	return v, nil
}

// Render executes a specific template by name.
func (v *View) Render(w io.Writer, r *http.Request, name string, data map[string]interface{}) error {
	ts, ok := v.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	if r != nil {
		data["Path"] = r.URL.Path
	}

	// Execute the template into a buffer first to catch any errors
	// before writing to the response writer.
	buf := new(bytes.Buffer)
	err := ts.ExecuteTemplate(buf, "base.html", data)
	if err != nil {
		return err
	}

	_, err = buf.WriteTo(w)
	return err
}
