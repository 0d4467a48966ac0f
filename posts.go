package folio

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eringen/folio/dates"
	"github.com/eringen/folio/manifest"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/views"
)

const (
	postsArchivePage    = "posts-archive.html"
	projectsArchivePage = "projects-archive.html"
)

// buildPosts renders every src/posts/content/*.md file to posts/<slug>.html
// and returns the manifest rows, newest first. Files that cannot be read or
// rendered are logged and skipped.
func (r *run) buildPosts() []manifest.Post {
	dir := filepath.Join(r.b.Config.Paths.Src, "posts", "content")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.WithError(err).Warn("could not read posts directory")
		}
		return []manifest.Post{}
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	posts := make([]manifest.Post, 0, len(files))
	written := make(map[string]bool, len(files))
	for _, file := range files {
		post, ok := r.buildPost(filepath.Join(dir, file), file)
		if !ok {
			continue
		}
		written[post.Href] = true
		posts = append(posts, post)
	}
	r.cleanPostPages(written)

	sort.SliceStable(posts, func(i, j int) bool {
		return dates.SortKey(posts[i].CreatedAt) > dates.SortKey(posts[j].CreatedAt)
	})
	return posts
}

func (r *run) buildPost(fullPath, file string) (manifest.Post, bool) {
	log := r.log.WithField("post", file)
	raw, err := os.ReadFile(fullPath)
	if err != nil {
		log.WithError(err).Warn("could not read post")
		return manifest.Post{}, false
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		log.WithError(err).Warn("could not stat post")
		return manifest.Post{}, false
	}
	modified := info.ModTime().UTC().Format(dates.ISOLayout)

	meta, body := markdown.ParseFrontmatter(string(raw))
	body = markdown.StripLeadingTitle(body)

	slug := meta.Get("slug")
	if slug == "" {
		slug = strings.TrimSuffix(file, ".md")
	}
	if strings.ContainsAny(slug, `/\`) || slug == "." || slug == ".." {
		slug = Slugify(slug)
	}
	if slug == "" {
		log.Warn("post has no usable slug")
		return manifest.Post{}, false
	}
	title := meta.Get("title")
	if title == "" {
		title = slug
	}
	description := meta.Get("description")
	if description == "" {
		description = markdown.ExtractExcerpt(body)
	}
	createdAt := dates.CoerceISODate(meta.Get("createdAt", "date"), modified)
	updatedAt := dates.CoerceISODate(meta.Get("updatedAt", "modifiedAt"), modified)

	post := manifest.Post{
		Slug:           slug,
		Title:          title,
		Description:    description,
		Href:           slug + ".html",
		SourcePath:     path.Join("posts", "content", file),
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		CreatedDisplay: dates.FormatDisplayDate(createdAt),
		UpdatedDisplay: dates.FormatDisplayDate(updatedAt),
		ReadTime:       meta.Get("readTime"),
	}

	page := views.PostPage{
		Title:          post.Title,
		Description:    post.Description,
		CreatedDisplay: post.CreatedDisplay,
		UpdatedDisplay: post.UpdatedDisplay,
		ReadTime:       post.ReadTime,
		JSONLD:         PostingJSONLD(post, r.b.Config.Site),
	}
	var buf bytes.Buffer
	c := views.Post(r.site(), page, views.Markdown(r.b.Renderer, body))
	if err := c.Render(r.ctx, &buf); err != nil {
		log.WithError(err).Warn("could not render post")
		return manifest.Post{}, false
	}
	if _, err := r.writeFile(path.Join("posts", post.Href), buf.Bytes()); err != nil {
		log.WithError(err).Warn("could not write post page")
		return manifest.Post{}, false
	}
	log.WithField("slug", slug).Debug("built post")
	return post, true
}
