package folio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/zeebo/blake3"
)

// staleArtifacts are outputs of older site layouts that must not survive a
// rebuild.
var staleArtifacts = []string{
	"posts/content",
	"resume.pdf",
	"posts/index.html",
	"posts/index.js",
	"posts/archive.html",
	"posts/archive.js",
	"projects/index.html",
	"projects/index.js",
	"projects/archive.html",
	"projects/archive.js",
}

// sourceOnlyPattern matches files that belong in src but never in dist.
const sourceOnlyPattern = "**/*.{ts,md}"

// writeFile writes data to rel under dist unless the file already holds the
// same bytes. It reports whether the file was written.
func (r *run) writeFile(rel string, data []byte) (bool, error) {
	dst := filepath.Join(r.b.Config.Paths.Dist, filepath.FromSlash(rel))
	if existing, err := os.ReadFile(dst); err == nil && blake3.Sum256(existing) == blake3.Sum256(data) {
		r.report.Unchanged++
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return false, err
	}
	r.report.Written++
	return true, nil
}

// copyFile copies src to rel under dist. A missing source is skipped.
func (r *run) copyFile(src, rel string) {
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.log.WithField("file", src).Debug("skipping missing file")
		} else {
			r.log.WithError(err).WithField("file", src).Warn("could not read file")
		}
		return
	}
	if _, err := r.writeFile(rel, data); err != nil {
		r.log.WithError(err).WithField("file", rel).Warn("could not write file")
	}
}

// copyAssets copies every file below src/assets, downscaling images when
// configured. Source-only files are not copied.
func (r *run) copyAssets() {
	root := filepath.Join(r.b.Config.Paths.Src, "assets")
	if _, err := os.Stat(root); err != nil {
		return
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(sourceOnlyPattern, rel); ok {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			r.log.WithError(err).WithField("file", path).Warn("could not read asset")
			return nil
		}
		if r.b.Config.Images.MaxWidth > 0 && isRasterImage(rel) {
			data = r.downscale(rel, data)
		}
		if _, err := r.writeFile("assets/"+rel, data); err != nil {
			r.log.WithError(err).WithField("file", rel).Warn("could not write asset")
		}
		return nil
	})
	if err != nil {
		r.log.WithError(err).Warn("could not copy assets")
	}
}

// prune removes artifacts of older layouts and any source-only files that
// ended up in dist. Nothing below the source directory is removed, even
// when dist encloses it.
func (r *run) prune() {
	dist := r.b.Config.Paths.Dist
	for _, rel := range staleArtifacts {
		path := filepath.Join(dist, filepath.FromSlash(rel))
		if r.inSource(path) {
			continue
		}
		if _, err := os.Lstat(path); err != nil {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			r.log.WithError(err).WithField("file", rel).Warn("could not remove stale artifact")
			continue
		}
		r.log.WithField("file", rel).Debug("removed stale artifact")
	}

	matches, err := doublestar.Glob(os.DirFS(dist), sourceOnlyPattern, doublestar.WithFilesOnly())
	if err != nil {
		r.log.WithError(err).Warn("could not scan dist for source files")
		return
	}
	for _, rel := range matches {
		if r.inSource(filepath.Join(dist, filepath.FromSlash(rel))) {
			r.log.WithField("file", rel).Debug("keeping source file inside dist")
			continue
		}
		if err := os.Remove(filepath.Join(dist, filepath.FromSlash(rel))); err != nil {
			r.log.WithError(err).WithField("file", rel).Warn("could not remove source file")
		}
	}
}

// inSource reports whether path is the source directory or lies below it.
func (r *run) inSource(path string) bool {
	src, err := filepath.Abs(r.b.Config.Paths.Src)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return within(src, abs)
}

// cleanPostPages removes generated post pages that this build did not
// produce. The posts archive page is kept.
func (r *run) cleanPostPages(keep map[string]bool) {
	dir := filepath.Join(r.b.Config.Paths.Dist, "posts")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".html") || name == postsArchivePage || keep[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			r.log.WithError(err).WithField("file", name).Warn("could not remove old post page")
			continue
		}
		r.log.WithField("file", name).Debug("removed old post page")
	}
}
