package view

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	// Bodies are sanitized on write, but rendered output is scrubbed again
	// so rows written outside the authoring pipeline stay safe too.
	sanitizer = bluemonday.UGCPolicy()
)

// Markdown renders a markdown body to sanitized HTML for templates.
func Markdown(body string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(body))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
