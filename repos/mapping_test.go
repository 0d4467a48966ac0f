package repos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eringen/folio/manifest"
)

func TestFormatTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"my-cool_tool", "My Cool Tool"},
		{"folio", "Folio"},
		{"already-Upper", "Already Upper"},
		{"dotfiles.vim", "Dotfiles.vim"},
	}
	for _, tt := range tests {
		if got := FormatTitle(tt.input); got != tt.expected {
			t.Errorf("FormatTitle(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestStatus(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		repo     Repo
		expected string
	}{
		{Repo{Archived: true, PushedAt: now}, StatusArchived},
		{Repo{PushedAt: now.AddDate(0, -1, 0)}, StatusActive},
		{Repo{PushedAt: now.AddDate(0, -6, 0)}, StatusActive},
		{Repo{PushedAt: now.AddDate(0, -7, 0)}, StatusMaintenance},
		{Repo{}, StatusMaintenance},
	}
	for _, tt := range tests {
		if got := Status(tt.repo, now); got != tt.expected {
			t.Errorf("Status(%+v) = %q, want %q", tt.repo, got, tt.expected)
		}
	}
}

func TestMapRepo(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	r := Repo{
		Name:        "My-Tool",
		Owner:       "ada",
		OwnerAvatar: "https://avatars.example/ada.png",
		CreatedAt:   time.Date(2021, 3, 4, 23, 0, 0, 0, time.UTC),
		PushedAt:    time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC),
		HTMLURL:     "https://github.com/ada/My-Tool",
	}

	p := MapRepo(r, nil, now)
	assert.Equal(t, manifest.Project{
		Slug:              "my-tool",
		Title:             "My Tool",
		Description:       "No description provided",
		CreatedAt:         "2021-03-04",
		UpdatedAt:         "2024-06-30",
		Href:              "https://github.com/ada/My-Tool",
		Repo:              "https://github.com/ada/My-Tool",
		Status:            StatusActive,
		Tags:              []string{"project"},
		Thumbnail:         "https://opengraph.githubassets.com/1/ada/My-Tool",
		ThumbnailFallback: "https://avatars.example/ada.png",
	}, p)

	r.Homepage = "https://tool.example"
	r.Description = "Does things"
	p = MapRepo(r, []string{"go", "cli"}, now)
	assert.Equal(t, "https://tool.example", p.Href)
	assert.Equal(t, "Does things", p.Description)
	assert.Equal(t, []string{"go", "cli"}, p.Tags)
}

func TestSort(t *testing.T) {
	projects := func() []manifest.Project {
		return []manifest.Project{
			{Title: "beta", CreatedAt: "2020-01-01", UpdatedAt: "2024-01-01"},
			{Title: "Alpha", CreatedAt: "2022-01-01", UpdatedAt: "2023-01-01"},
			{Title: "gamma", CreatedAt: "2021-01-01", UpdatedAt: "2025-01-01"},
		}
	}
	titles := func(ps []manifest.Project) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Title)
		}
		return out
	}

	ps := projects()
	Sort(ps, SortUpdated)
	assert.Equal(t, []string{"gamma", "beta", "Alpha"}, titles(ps))

	ps = projects()
	Sort(ps, SortCreated)
	assert.Equal(t, []string{"Alpha", "gamma", "beta"}, titles(ps))

	ps = projects()
	Sort(ps, SortName)
	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, titles(ps))

	ps = projects()
	Sort(ps, "")
	assert.Equal(t, []string{"gamma", "beta", "Alpha"}, titles(ps))
}
