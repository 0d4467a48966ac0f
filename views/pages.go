// Package views renders the generated HTML pages as templ components.
package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/folio/dates"
	"github.com/eringen/folio/manifest"
	"github.com/eringen/folio/markdown"
)

const fontsHead = `  <link rel="preconnect" href="https://fonts.googleapis.com">
  <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
  <link href="https://fonts.googleapis.com/css2?family=Plus+Jakarta+Sans:wght@400;500;600;700&display=swap" rel="stylesheet">
`

// esc escapes text and attribute values.
func esc(s string) string {
	return templ.EscapeString(s)
}

func pageTitle(title string, site Site) string {
	if site.Name == "" {
		return title
	}
	return title + " · " + site.Name
}

// head writes the document preamble shared by every generated page. Pages
// live one directory below the site root.
func head(w io.Writer, title, description, extra string) error {
	_, err := fmt.Fprintf(w, `<!doctype html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <meta name="description" content="%s">
%s  <link rel="stylesheet" href="../styles.css">
  <title>%s</title>
%s</head>
`, esc(description), fontsHead, esc(title), extra)
	return err
}

// MetaLine joins the created date, a differing updated date and the read
// time with " · ", or returns the placeholder when all are empty.
func MetaLine(createdDisplay, updatedDisplay, readTime string) string {
	var pieces []string
	if createdDisplay != "" {
		pieces = append(pieces, createdDisplay)
	}
	if updatedDisplay != "" && updatedDisplay != createdDisplay {
		pieces = append(pieces, "Updated "+updatedDisplay)
	}
	if readTime != "" {
		pieces = append(pieces, readTime)
	}
	if len(pieces) == 0 {
		return dates.Placeholder
	}
	return strings.Join(pieces, " · ")
}

// Post renders a full post page around body.
func Post(site Site, page PostPage, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		extra := ""
		if page.JSONLD != "" {
			extra = `  <script type="application/ld+json">` + page.JSONLD + "</script>\n"
		}
		if err := head(w, pageTitle(page.Title, site), page.Description, extra); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<body class="post-page">
  <a class="skip-link" href="#content">Skip to content</a>

  <main class="post-shell">
    <header class="post-header">
      <div class="post-links">
        <a class="inline-link" href="./posts-archive.html">Blog archive</a>
        <span aria-hidden="true">·</span>
        <a class="inline-link" href="../index.html">Portfolio home</a>
      </div>
      <p class="eyebrow">Blog · Post</p>
      <p class="post-meta">%s</p>
      <h1>%s</h1>
    </header>

    <article id="content" class="post-body">
`, esc(MetaLine(page.CreatedDisplay, page.UpdatedDisplay, page.ReadTime)), esc(page.Title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `
    </article>
  </main>
</body>
</html>
`)
		return err
	})
}

// archive renders the shared archive page shell with rows in its table body.
func archive(site Site, title, eyebrow string, columns []string, rows func(io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := head(w, pageTitle(title, site), site.Description, ""); err != nil {
			return err
		}
		var th strings.Builder
		for _, c := range columns {
			th.WriteString("            <th scope=\"col\">" + esc(c) + "</th>\n")
		}
		if _, err := fmt.Fprintf(w, `<body class="archive-page">
  <main class="archive-shell">
    <header class="archive-header">
      <a class="inline-link" href="../index.html">Portfolio home</a>
      <p class="eyebrow">%s</p>
      <h1>%s</h1>
    </header>
    <table class="archive-table">
      <thead>
        <tr>
%s        </tr>
      </thead>
      <tbody data-archive-body>
`, esc(eyebrow), esc(title), th.String()); err != nil {
			return err
		}
		if err := rows(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `      </tbody>
    </table>
  </main>
</body>
</html>
`)
		return err
	})
}

func emptyRow(w io.Writer, span int) error {
	_, err := fmt.Fprintf(w, "        <tr><td colspan=\"%d\">No entries yet.</td></tr>\n", span)
	return err
}

func displayOr(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return dates.Placeholder
}

func linkAttrs(href string) string {
	if markdown.IsExternal(href) {
		return ` target="_blank" rel="noreferrer"`
	}
	return ""
}

// PostsArchive renders posts/posts-archive.html from the post manifest.
func PostsArchive(site Site, posts []manifest.Post) templ.Component {
	columns := []string{"Created", "Updated", "Title", "Link"}
	return archive(site, "Blog archive", "Blog · Archive", columns, func(w io.Writer) error {
		if len(posts) == 0 {
			return emptyRow(w, len(columns))
		}
		for _, p := range posts {
			href := p.Href
			if href == "" {
				href = "#"
			}
			title := p.Title
			if title == "" {
				title = "Untitled"
			}
			var meta, source string
			if p.ReadTime != "" {
				meta = `<div class="archive-meta">` + esc(p.ReadTime) + `</div>`
			}
			if p.SourcePath != "" {
				source = `<div class="archive-meta">Source: ` + esc(p.SourcePath) + `</div>`
			}
			if _, err := fmt.Fprintf(w, `        <tr>
          <td>%s</td>
          <td>%s</td>
          <td><div class="archive-title"><div>%s</div>%s</div></td>
          <td><a class="inline-link" href="%s"%s>Open post</a>%s</td>
        </tr>
`, esc(displayOr(p.CreatedDisplay, p.CreatedAt)), esc(displayOr(p.UpdatedDisplay, p.UpdatedAt)),
				esc(title), meta, esc(href), linkAttrs(href), source); err != nil {
				return err
			}
		}
		return nil
	})
}

// ProjectMeta joins the status and a differing updated date.
func ProjectMeta(p manifest.ProjectRow) string {
	created := displayOr(p.CreatedDisplay, p.CreatedAt, p.Date)
	updated := p.UpdatedDisplay
	if updated == "" {
		updated = p.UpdatedAt
	}
	var pieces []string
	if p.Status != "" {
		pieces = append(pieces, p.Status)
	}
	if updated != "" && updated != created {
		pieces = append(pieces, "Updated "+updated)
	}
	return strings.Join(pieces, " · ")
}

// ProjectsArchive renders projects/projects-archive.html from the project
// manifest.
func ProjectsArchive(site Site, projects []manifest.ProjectRow) templ.Component {
	columns := []string{"Date", "Project", "Description", "Tags", "Link"}
	return archive(site, "Projects archive", "Projects · Archive", columns, func(w io.Writer) error {
		if len(projects) == 0 {
			return emptyRow(w, len(columns))
		}
		for _, p := range projects {
			title := p.Title
			if title == "" {
				title = "Untitled"
			}
			meta := ""
			if m := ProjectMeta(p); m != "" {
				meta = `<span class="archive-meta">` + esc(m) + `</span>`
			}
			description := p.Description
			if description == "" {
				description = "—"
			}
			tags := "—"
			if len(p.Tags) > 0 {
				var b strings.Builder
				b.WriteString(`<div class="tags">`)
				for _, t := range p.Tags {
					b.WriteString(`<span class="tag">` + esc(t) + `</span>`)
				}
				b.WriteString(`</div>`)
				tags = b.String()
			}
			link := "—"
			href := p.Repo
			if href == "" {
				href = p.Href
			}
			// SafeURL returns the value already escaped.
			if href = markdown.SafeURL(href); href != "" {
				link = `<a class="inline-link" href="` + href + `" target="_blank" rel="noreferrer">Open</a>`
			}
			if _, err := fmt.Fprintf(w, `        <tr>
          <td>%s</td>
          <td><div class="archive-title"><span>%s</span>%s</div></td>
          <td>%s</td>
          <td>%s</td>
          <td>%s</td>
        </tr>
`, esc(displayOr(p.CreatedDisplay, p.CreatedAt, p.Date)), esc(title), meta,
				esc(description), tags, link); err != nil {
				return err
			}
		}
		return nil
	})
}
