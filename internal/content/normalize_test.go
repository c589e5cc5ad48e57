//go:build unit

package content

import (
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func TestDeriveSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Epic Clutch in Valorant!", "epic-clutch-in-valorant"},
		{"Hello, World", "hello-world"},
		{"  spaced   out  ", "spaced-out"},
		{"---already---hyphenated---", "already-hyphenated"},
		{"MixedCASE Title 42", "mixedcase-title-42"},
		{"!!!", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := DeriveSlug(c.title); got != c.want {
			t.Errorf("DeriveSlug(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}

func TestDeriveSlugAlphabet(t *testing.T) {
	// Whatever the input, the output must stay within [a-z0-9-] and carry
	// no leading or trailing hyphen.
	inputs := []string{
		"Ünïcödé & Symbols ™",
		"tabs\tand\nnewlines",
		"ends with punctuation?!",
		"(starts with parens) too",
	}
	for _, in := range inputs {
		slug := DeriveSlug(in)
		if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
			t.Errorf("DeriveSlug(%q) = %q has a leading or trailing hyphen", in, slug)
		}
		for _, r := range slug {
			ok := r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
			if !ok {
				t.Errorf("DeriveSlug(%q) = %q contains %q", in, slug, r)
			}
		}
	}
}

func TestSplitList(t *testing.T) {
	if got := SplitList(""); len(got) != 0 {
		t.Errorf("SplitList(\"\") = %v, want empty", got)
	}
	got := SplitList("a, b ,c")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitList = %v, want %v", got, want)
	}
	if got := SplitList(", ,,"); len(got) != 0 {
		t.Errorf("SplitList of only separators = %v, want empty", got)
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("first line\r\n  second line \n\n")
	want := []string{"first line", "second line"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines = %v, want %v", got, want)
	}
}

func TestNormalizeCheckbox(t *testing.T) {
	form := url.Values{"title": {"T"}, "excerpt": {"E"}, "content": {"C"}, "published": {"on"}}
	values := BlogPosts.Normalize(form)
	if values["published"] != true {
		t.Errorf("published = %v, want true", values["published"])
	}
	// Absent checkbox normalizes to false, not nil.
	if values["featured"] != false {
		t.Errorf("featured = %v, want false", values["featured"])
	}
}

func TestNormalizeKinds(t *testing.T) {
	form := url.Values{
		"title":      {"  A Post  "},
		"tags":       {"go, web ,"},
		"highlights": {"one\ntwo\n"},
	}
	values := ResumeExperiences.Normalize(form)
	if got := values["title"]; got != "A Post" {
		t.Errorf("title = %q, want trimmed", got)
	}
	if got := values["highlights"].([]string); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Errorf("highlights = %v", got)
	}

	values = BlogPosts.Normalize(form)
	if got := values["tags"].([]string); !reflect.DeepEqual(got, []string{"go", "web"}) {
		t.Errorf("tags = %v", got)
	}
}

func TestValidateMissingField(t *testing.T) {
	form := url.Values{"title": {"T"}, "excerpt": {"E"}}
	values := BlogPosts.Normalize(form)
	err := BlogPosts.Validate(values)
	if err == nil {
		t.Fatal("expected validation error for missing content")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Field != "content" {
		t.Errorf("missing field = %q, want content", verr.Field)
	}
}

func TestValidateRequiredList(t *testing.T) {
	form := url.Values{"title": {"T"}, "description": {"D"}, "technologies": {" , "}}
	values := Projects.Normalize(form)
	err := Projects.Validate(values)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Field != "technologies" {
		t.Errorf("missing field = %q, want technologies", verr.Field)
	}
}

func TestByTable(t *testing.T) {
	if _, ok := ByTable("blog_posts"); !ok {
		t.Error("blog_posts schema not registered")
	}
	if _, ok := ByTable("no_such_table"); ok {
		t.Error("unknown table should not resolve")
	}
}

func TestInvalidationRoutes(t *testing.T) {
	routes := BlogPosts.InvalidationRoutes("my-post")
	want := map[string]bool{"/": true, "/blog": true, "/blog/my-post": true}
	if len(routes) != len(want) {
		t.Fatalf("routes = %v", routes)
	}
	for _, r := range routes {
		if !want[r] {
			t.Errorf("unexpected route %q", r)
		}
	}

	routes = ResumeExperiences.InvalidationRoutes("")
	found := false
	for _, r := range routes {
		if r == "/resume" {
			found = true
		}
	}
	if !found {
		t.Errorf("resume routes missing /resume: %v", routes)
	}
}
