//go:build unit

package auth

import (
	"strings"
	"testing"

	"github.com/casbin/casbin/v2"

	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/logger"
)

// newTestEnforcer builds an enforcer from the real model file with no
// database adapter, so seeded policies live in memory only.
func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()
	e, err := casbin.NewEnforcer("../../auth_model.conf")
	if err != nil {
		t.Fatalf("casbin.NewEnforcer() error = %v", err)
	}
	log := logger.New(config.LogConfig{Level: "error", Format: "json"}, &strings.Builder{})
	SeedDefaultPolicies(e, log)
	return e
}

func mustEnforce(t *testing.T, e *casbin.Enforcer, sub, obj, act string, want bool) {
	t.Helper()
	allowed, err := e.Enforce(sub, obj, act)
	if err != nil {
		t.Fatalf("Enforce(%s, %s, %s) error = %v", sub, obj, act, err)
	}
	if allowed != want {
		t.Errorf("Enforce(%s, %s, %s) = %v, want %v", sub, obj, act, allowed, want)
	}
}

// Every route the router exposes to visitors must be reachable for the
// anonymous role, including a detail page under each content variant's
// prefix. A variant missing from the seed list would bounce its public
// detail pages to the login form.
func TestSeededPoliciesCoverPublicRoutes(t *testing.T) {
	e := newTestEnforcer(t)

	routes := []string{
		"/",
		"/resume",
		"/gallery",
		"/contact",
		"/robots.txt",
		"/sitemap.xml",
		"/static/css/main.css",
		"/uploads/gallery/1-abc.png",
		"/auth/login",
		"/auth/sso",
		"/auth/callback",
	}
	for _, sc := range content.ContentVariants {
		routes = append(routes, sc.CollectionPath, sc.DetailPrefix+"some-slug")
	}
	for _, route := range routes {
		mustEnforce(t, e, "anonymous", route, "GET", true)
	}
	mustEnforce(t, e, "anonymous", "/auth/signin", "POST", true)
	mustEnforce(t, e, "anonymous", "/auth/signout", "POST", true)
}

func TestSeededPoliciesGateAdminRoutes(t *testing.T) {
	e := newTestEnforcer(t)

	mustEnforce(t, e, "anonymous", "/admin", "GET", false)
	mustEnforce(t, e, "anonymous", "/admin/blog_posts", "POST", false)
	mustEnforce(t, e, "anonymous", "/api/upload", "POST", false)

	mustEnforce(t, e, "editor", "/admin", "GET", true)
	mustEnforce(t, e, "editor", "/admin/blog_posts/3/edit", "GET", true)
	mustEnforce(t, e, "editor", "/admin/blog_posts/3/delete", "POST", true)
	mustEnforce(t, e, "editor", "/api/upload", "POST", true)
	mustEnforce(t, e, "editor", "/api/gallery", "POST", true)
}

// The editor role inherits every anonymous permission, so signed-in
// sessions can still browse the public site.
func TestEditorInheritsAnonymous(t *testing.T) {
	e := newTestEnforcer(t)

	mustEnforce(t, e, "editor", "/blog/some-post", "GET", true)
	mustEnforce(t, e, "editor", "/code/some-item", "GET", true)
	mustEnforce(t, e, "editor", "/gameplay/some-clip", "GET", true)
}

func TestSeedingIsIdempotent(t *testing.T) {
	e := newTestEnforcer(t)
	log := logger.New(config.LogConfig{Level: "error", Format: "json"}, &strings.Builder{})

	before, err := e.GetPolicy()
	if err != nil {
		t.Fatalf("GetPolicy() error = %v", err)
	}
	SeedDefaultPolicies(e, log)
	after, err := e.GetPolicy()
	if err != nil {
		t.Fatalf("GetPolicy() error = %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("policy count after reseed = %d, want %d", len(after), len(before))
	}
}
