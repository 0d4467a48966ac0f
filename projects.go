package folio

import (
	"sort"
	"strings"

	"github.com/eringen/folio/dates"
	"github.com/eringen/folio/manifest"
)

// projectKey is the merge identity of a project: its slug, or the slugified
// title when no slug is given.
func projectKey(p manifest.Project) string {
	if s := strings.TrimSpace(p.Slug); s != "" {
		return s
	}
	return Slugify(p.Title)
}

// MergeProjects combines GitHub-derived and curated projects by slug. A
// curated entry's non-empty fields win; GitHub fills the rest. Entries with
// no slug and no title are dropped. Order is first-seen, GitHub first.
func MergeProjects(github, manual []manifest.Project) []manifest.Project {
	index := make(map[string]int)
	var out []manifest.Project
	add := func(p manifest.Project, override bool) {
		key := projectKey(p)
		if key == "" {
			return
		}
		p.Slug = key
		if i, ok := index[key]; ok {
			if override {
				out[i] = fillGaps(p, out[i])
			} else {
				out[i] = fillGaps(out[i], p)
			}
			return
		}
		index[key] = len(out)
		out = append(out, p)
	}
	for _, p := range github {
		add(p, false)
	}
	for _, p := range manual {
		add(p, true)
	}
	if out == nil {
		out = []manifest.Project{}
	}
	return out
}

// fillGaps returns primary with every empty field taken from secondary.
func fillGaps(primary, secondary manifest.Project) manifest.Project {
	pick := func(a, b string) string {
		if strings.TrimSpace(a) != "" {
			return a
		}
		return b
	}
	primary.Title = pick(primary.Title, secondary.Title)
	primary.Description = pick(primary.Description, secondary.Description)
	primary.CreatedAt = pick(primary.CreatedAt, secondary.CreatedAt)
	primary.UpdatedAt = pick(primary.UpdatedAt, secondary.UpdatedAt)
	primary.CreatedDisplay = pick(primary.CreatedDisplay, secondary.CreatedDisplay)
	primary.UpdatedDisplay = pick(primary.UpdatedDisplay, secondary.UpdatedDisplay)
	primary.Date = pick(primary.Date, secondary.Date)
	primary.Href = pick(primary.Href, secondary.Href)
	primary.Link = pick(primary.Link, secondary.Link)
	primary.Repo = pick(primary.Repo, secondary.Repo)
	primary.Status = pick(primary.Status, secondary.Status)
	primary.Thumbnail = pick(primary.Thumbnail, secondary.Thumbnail)
	primary.ThumbnailFallback = pick(primary.ThumbnailFallback, secondary.ThumbnailFallback)
	if len(primary.Tags) == 0 {
		primary.Tags = secondary.Tags
	}
	return primary
}

// BuildRows normalizes merged projects into manifest rows, newest first.
// Undated projects sort last.
func BuildRows(projects []manifest.Project) []manifest.ProjectRow {
	rows := make([]manifest.ProjectRow, 0, len(projects))
	for _, p := range projects {
		created := dates.CoerceISODate(firstNonEmpty(p.CreatedAt, p.Date), "")
		updated := dates.CoerceISODate(p.UpdatedAt, firstNonEmpty(p.CreatedAt, p.Date))
		createdDisplay := dates.FormatDisplayDate(created)
		tags := FilterEmpty(p.Tags)
		if tags == nil {
			tags = []string{}
		}
		rows = append(rows, manifest.ProjectRow{
			Slug:              projectKey(p),
			Title:             firstNonEmpty(p.Title, p.Slug, "Untitled"),
			Description:       p.Description,
			CreatedAt:         created,
			UpdatedAt:         updated,
			CreatedDisplay:    createdDisplay,
			UpdatedDisplay:    dates.FormatDisplayDate(updated),
			Date:              firstNonEmpty(p.Date, createdDisplay),
			Href:              firstNonEmpty(p.Href, p.Link, p.Repo),
			Repo:              p.Repo,
			Status:            p.Status,
			Tags:              tags,
			Thumbnail:         p.Thumbnail,
			ThumbnailFallback: p.ThumbnailFallback,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return dates.SortKey(rows[i].CreatedAt) > dates.SortKey(rows[j].CreatedAt)
	})
	return rows
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
