package folio

import (
	"encoding/json"
	"testing"

	"github.com/eringen/folio/manifest"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"  Go & Templ!  ", "go-templ"},
		{"already-slugged", "already-slugged"},
		{"../../etc", "etc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		expected string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com/", []string{"posts"}, "https://example.com/posts/"},
		{"https://example.com", []string{"posts", "hello.html"}, "https://example.com/posts/hello.html"},
		{"https://example.com/site", []string{"feed.xml"}, "https://example.com/site/feed.xml"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.expected {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.expected)
		}
	}
}

func TestPostingJSONLD(t *testing.T) {
	post := manifest.Post{Title: "Hi", Href: "hi.html", CreatedAt: "2024-01-01"}
	if got := PostingJSONLD(post, SiteConfig{}); got != "" {
		t.Errorf("expected no JSON-LD without a site URL, got %q", got)
	}

	var doc map[string]any
	raw := PostingJSONLD(post, SiteConfig{URL: "https://example.com", Author: "Ada"})
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if doc["url"] != "https://example.com/posts/hi.html" {
		t.Errorf("url = %v", doc["url"])
	}
	if _, ok := doc["publisher"]; ok {
		t.Error("publisher should be omitted without a site name")
	}
}
