// Package folio builds a static portfolio site: markdown posts and a curated
// project list, optionally enriched from GitHub, become static pages and
// JSON manifests under a dist directory.
package folio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eringen/folio/manifest"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/views"
)

// ProjectSource supplies GitHub-derived projects. Implementations never fail;
// they degrade to a cached or empty list.
type ProjectSource interface {
	Projects(ctx context.Context) []manifest.Project
}

// Builder turns a source tree into a site. A Builder is not safe for
// concurrent Build calls; the watcher serializes them.
type Builder struct {
	Config   Config
	Renderer markdown.Renderer
	Projects ProjectSource
	Log      logrus.FieldLogger
}

// Report summarizes one build.
type Report struct {
	BuildID   string
	Posts     int
	Projects  int
	Written   int
	Unchanged int
	Duration  time.Duration
}

// Option configures a Builder.
type Option func(*Builder)

// WithProjectSource enables GitHub-derived projects.
func WithProjectSource(src ProjectSource) Option {
	return func(b *Builder) {
		b.Projects = src
	}
}

// WithLogger sets the logger build lines are written to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *Builder) {
		b.Log = log
	}
}

// WithRenderer overrides the markdown engine chosen by the configuration.
func WithRenderer(r markdown.Renderer) Option {
	return func(b *Builder) {
		b.Renderer = r
	}
}

// NewBuilder creates a Builder for cfg. Defaults are applied to cfg.
func NewBuilder(cfg Config, opts ...Option) (*Builder, error) {
	cfg.setDefaults()
	b := &Builder{Config: cfg}
	for _, opt := range opts {
		opt(b)
	}
	if b.Log == nil {
		b.Log = logrus.StandardLogger()
	}
	if b.Renderer == nil {
		r, err := markdown.New(cfg.Markdown.Engine)
		if err != nil {
			return nil, fmt.Errorf("folio: %w", err)
		}
		b.Renderer = r
	}
	return b, nil
}

// run holds the state of a single build.
type run struct {
	ctx    context.Context
	b      *Builder
	log    *logrus.Entry
	report *Report
}

func (r *run) site() views.Site {
	return views.Site{
		Name:        r.b.Config.Site.Name,
		Description: r.b.Config.Site.Description,
	}
}

// Build regenerates the site. Only failing to create the output directory is
// returned as an error; everything else is logged and the build continues.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	start := time.Now()
	report := Report{BuildID: uuid.NewString()}
	r := &run{
		ctx:    ctx,
		b:      b,
		log:    b.Log.WithField("build_id", report.BuildID),
		report: &report,
	}

	dist := b.Config.Paths.Dist
	if err := os.MkdirAll(dist, 0o755); err != nil {
		return report, fmt.Errorf("folio: create %s: %w", dist, err)
	}
	r.log.WithField("dist", dist).Info("build started")

	r.prune()

	src := b.Config.Paths.Src
	r.copyFile(filepath.Join(src, "index.html"), "index.html")
	r.copyFile(filepath.Join(src, "styles.css"), "styles.css")
	if _, err := r.writeFile(clientScript, ClientScript()); err != nil {
		r.log.WithError(err).Warn("could not write client script")
	}
	r.copyAssets()

	posts := r.buildPosts()
	rows := BuildRows(MergeProjects(r.githubProjects(), r.manualProjects()))
	report.Posts = len(posts)
	report.Projects = len(rows)

	r.writeJSON("posts/posts.json", posts)
	r.writeJSON("projects/projects.json", rows)
	r.writeArchive("posts/"+postsArchivePage, views.PostsArchive(r.site(), posts))
	r.writeArchive("projects/"+projectsArchivePage, views.ProjectsArchive(r.site(), rows))
	r.writeFeeds(posts)

	report.Duration = time.Since(start)
	r.log.WithFields(logrus.Fields{
		"posts":     report.Posts,
		"projects":  report.Projects,
		"written":   report.Written,
		"unchanged": report.Unchanged,
		"duration":  report.Duration.Round(time.Millisecond).String(),
	}).Info("build completed")
	return report, nil
}

func (r *run) githubProjects() []manifest.Project {
	if r.b.Projects == nil {
		return nil
	}
	return r.b.Projects.Projects(r.ctx)
}

func (r *run) manualProjects() []manifest.Project {
	path := filepath.Join(r.b.Config.Paths.Src, "projects", "projects.json")
	projects, err := manifest.ReadProjects(path)
	if err != nil {
		r.log.WithError(err).Warn("ignoring project list")
	}
	return projects
}

func (r *run) writeJSON(rel string, v any) {
	data, err := manifest.Encode(v)
	if err != nil {
		r.log.WithError(err).WithField("file", rel).Error("could not encode manifest")
		return
	}
	if _, err := r.writeFile(rel, data); err != nil {
		r.log.WithError(err).WithField("file", rel).Error("could not write manifest")
	}
}

func (r *run) writePage(rel string, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.ctx, &buf); err != nil {
		r.log.WithError(err).WithField("file", rel).Error("could not render page")
		return
	}
	if _, err := r.writeFile(rel, buf.Bytes()); err != nil {
		r.log.WithError(err).WithField("file", rel).Error("could not write page")
	}
}

// writeArchive copies a hand-written archive page from src when there is
// one and renders c otherwise. Hand-written pages read the JSON manifests
// client-side.
func (r *run) writeArchive(rel string, c templ.Component) {
	custom := filepath.Join(r.b.Config.Paths.Src, filepath.FromSlash(rel))
	if info, err := os.Stat(custom); err == nil && !info.IsDir() {
		r.log.WithField("file", rel).Debug("using archive page from source")
		r.copyFile(custom, rel)
		return
	}
	r.writePage(rel, c)
}

func (r *run) writeFeeds(posts []manifest.Post) {
	site := r.b.Config.Site
	if site.URL == "" {
		return
	}
	feeds := []struct {
		name   string
		render func(SiteConfig, []manifest.Post) ([]byte, error)
	}{
		{"feed.xml", renderRSS},
		{"sitemap.xml", renderSitemap},
	}
	for _, f := range feeds {
		data, err := f.render(site, posts)
		if err != nil {
			r.log.WithError(err).WithField("file", f.name).Error("could not render feed")
			continue
		}
		if _, err := r.writeFile(f.name, data); err != nil {
			r.log.WithError(err).WithField("file", f.name).Error("could not write feed")
		}
	}
}
