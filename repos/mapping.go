package repos

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/eringen/folio/dates"
	"github.com/eringen/folio/manifest"
)

const (
	StatusActive      = "Active"
	StatusArchived    = "Archived"
	StatusMaintenance = "Maintenance"

	noDescription = "No description provided"
)

// Sort orders accepted by Sort.
const (
	SortUpdated = "updated"
	SortCreated = "created"
	SortName    = "name"
)

var defaultTags = []string{"project"}

// MapRepo converts a repository into a project entry. now decides whether
// the last push is recent enough to count as active.
func MapRepo(r Repo, topics []string, now time.Time) manifest.Project {
	href := r.Homepage
	if href == "" {
		href = r.HTMLURL
	}
	description := r.Description
	if strings.TrimSpace(description) == "" {
		description = noDescription
	}
	tags := topics
	if len(tags) == 0 {
		tags = defaultTags
	}
	p := manifest.Project{
		Slug:              strings.ToLower(r.Name),
		Title:             FormatTitle(r.Name),
		Description:       description,
		CreatedAt:         isoDay(r.CreatedAt),
		UpdatedAt:         isoDay(r.PushedAt),
		Href:              href,
		Repo:              r.HTMLURL,
		Status:            Status(r, now),
		Tags:              append([]string(nil), tags...),
		ThumbnailFallback: r.OwnerAvatar,
	}
	if r.Owner != "" {
		p.Thumbnail = "https://opengraph.githubassets.com/1/" + r.Owner + "/" + r.Name
	}
	return p
}

// Status classifies a repository as Archived, Active (pushed within the last
// six months) or Maintenance.
func Status(r Repo, now time.Time) string {
	if r.Archived {
		return StatusArchived
	}
	if !r.PushedAt.IsZero() && !r.PushedAt.Before(now.AddDate(0, -6, 0)) {
		return StatusActive
	}
	return StatusMaintenance
}

// FormatTitle turns a repository name like "my-cool_tool" into "My Cool Tool".
func FormatTitle(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Sort orders projects in place by updated (default), created, or name.
// Date orders are newest first.
func Sort(projects []manifest.Project, by string) {
	switch by {
	case SortCreated:
		sort.SliceStable(projects, func(i, j int) bool {
			return dates.SortKey(projects[i].CreatedAt) > dates.SortKey(projects[j].CreatedAt)
		})
	case SortName:
		sort.SliceStable(projects, func(i, j int) bool {
			return strings.ToLower(projects[i].Title) < strings.ToLower(projects[j].Title)
		})
	default:
		sort.SliceStable(projects, func(i, j int) bool {
			return dates.SortKey(projects[i].UpdatedAt) > dates.SortKey(projects[j].UpdatedAt)
		})
	}
}

func isoDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dates.ISOLayout)
}
