//go:build unit

package view

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/web"
)

func newTestView(t *testing.T) *View {
	t.Helper()
	v, err := New(web.TemplateFS)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return v
}

func TestRenderErrorPage(t *testing.T) {
	v := newTestView(t)
	r := httptest.NewRequest("GET", "/missing", nil)

	var buf bytes.Buffer
	err := v.Render(&buf, r, "error.html", map[string]interface{}{
		"StatusCode": 404,
		"StatusText": "Page not found",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, "404") || !strings.Contains(body, "Page not found") {
		t.Errorf("rendered error page missing status: %s", body)
	}
}

func TestRenderLoginPage(t *testing.T) {
	v := newTestView(t)
	r := httptest.NewRequest("GET", "/auth/login", nil)

	var buf bytes.Buffer
	err := v.Render(&buf, r, "login.html", map[string]interface{}{
		"SSOEnabled": true,
		"Flash":      "Invalid email or password",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, "Invalid email or password") {
		t.Error("flash message not rendered")
	}
	if !strings.Contains(body, "/auth/sso") {
		t.Error("sso link not rendered when enabled")
	}
}

func TestRenderAdminForm(t *testing.T) {
	v := newTestView(t)
	r := httptest.NewRequest("GET", "/admin/blog_posts/1/edit", nil)

	row := data.Row{
		"title":     "Hello World",
		"slug":      "hello-world",
		"tags":      []string{"go", "web"},
		"published": true,
	}
	var buf bytes.Buffer
	err := v.Render(&buf, r, "admin_form.html", map[string]interface{}{
		"Schema": content.BlogPosts,
		"Item":   row,
		"Action": "/admin/blog_posts/1",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, `value="hello-world"`) {
		t.Error("slug not prefilled")
	}
	if !strings.Contains(body, "go, web") {
		t.Error("tag list not rejoined for editing")
	}
	if !strings.Contains(body, "checked") {
		t.Error("published checkbox not checked")
	}
}

func TestRenderEmptyAdminForm(t *testing.T) {
	v := newTestView(t)
	r := httptest.NewRequest("GET", "/admin/skills/new", nil)

	var buf bytes.Buffer
	err := v.Render(&buf, r, "admin_form.html", map[string]interface{}{
		"Schema": content.Skills,
		"Item":   data.Row(nil),
		"Action": "/admin/skills",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), `name="level"`) {
		t.Error("schema fields not rendered on empty form")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	v := newTestView(t)
	var buf bytes.Buffer
	if err := v.Render(&buf, nil, "nope.html", nil); err == nil {
		t.Error("Render() with unknown template should fail")
	}
}

func TestMarkdownSanitizesScript(t *testing.T) {
	out := string(Markdown("# Title\n\n<script>alert(1)</script>\n\n**bold**"))
	if strings.Contains(out, "<script>") {
		t.Error("script tag survived sanitization")
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("markdown formatting lost: %s", out)
	}
}
