package repos

import (
	"slices"
	"strings"
)

// Filters selects which repositories become projects. The zero value drops
// forks and archived repositories and keeps everything else.
type Filters struct {
	IncludeTopics   []string `yaml:"include_topics"`
	ExcludeTopics   []string `yaml:"exclude_topics"`
	ExcludeRepos    []string `yaml:"exclude_repos"`
	IncludeForks    bool     `yaml:"include_forks"`
	IncludeArchived bool     `yaml:"include_archived"`
	MinStars        int      `yaml:"min_stars"`
	HasDescription  bool     `yaml:"has_description"`
}

// NeedsTopics reports whether topic filtering is configured.
func (f Filters) NeedsTopics() bool {
	return len(f.IncludeTopics) > 0 || len(f.ExcludeTopics) > 0
}

// Keep applies the repository-level filters, which need no topic lookup.
func (f Filters) Keep(r Repo) bool {
	if slices.Contains(f.ExcludeRepos, r.Name) {
		return false
	}
	if r.Fork && !f.IncludeForks {
		return false
	}
	if r.Archived && !f.IncludeArchived {
		return false
	}
	if r.Stars < f.MinStars {
		return false
	}
	if f.HasDescription && strings.TrimSpace(r.Description) == "" {
		return false
	}
	return true
}

// MatchesTopics reports whether topics pass the include and exclude lists.
// An empty include list matches everything.
func (f Filters) MatchesTopics(topics []string) bool {
	for _, t := range topics {
		if slices.Contains(f.ExcludeTopics, t) {
			return false
		}
	}
	if len(f.IncludeTopics) == 0 {
		return true
	}
	for _, t := range topics {
		if slices.Contains(f.IncludeTopics, t) {
			return true
		}
	}
	return false
}

// Filter returns the repositories that pass Keep, preserving order.
func (f Filters) Filter(list []Repo) []Repo {
	out := make([]Repo, 0, len(list))
	for _, r := range list {
		if f.Keep(r) {
			out = append(out, r)
		}
	}
	return out
}
