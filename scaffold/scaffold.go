// Package scaffold provides embedded template files for `folio new` and
// writes them into a fresh site directory.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

const root = "templates"

// renamed maps template names to dotfile names embed would otherwise skip
// or tools would pick up from the source tree.
var renamed = map[string]string{
	"dotenv":    ".env.example",
	"gitignore": ".gitignore",
}

// Data holds the template variables passed to every scaffold template.
type Data struct {
	SiteName string
	Today    string
}

// NewData derives template data for a site created in dir.
func NewData(dir string, now time.Time) Data {
	return Data{
		SiteName: ToTitle(filepath.Base(filepath.Clean(dir))),
		Today:    now.UTC().Format("2006-01-02"),
	}
}

// Generate writes the starter site into dir, which must not exist yet. It
// returns the created files relative to dir.
func Generate(dir string, data Data) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("directory %q already exists", dir)
	}

	var created []string
	err := fs.WalkDir(Templates, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		rel = strings.TrimSuffix(rel, ".tmpl")
		if name, ok := renamed[path.Base(rel)]; ok {
			rel = path.Join(path.Dir(rel), name)
		}
		outPath := filepath.Join(dir, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := Templates.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		tmpl, err := template.New(path.Base(p)).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", p, err)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", p, err)
		}
		created = append(created, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ToTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-site" -> "My Site", "mysite" -> "Mysite"
func ToTitle(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
