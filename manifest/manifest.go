// Package manifest defines the JSON records published for the posts and
// projects archives and reads/writes them.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Post is one row of posts/posts.json.
type Post struct {
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Href           string `json:"href"`
	SourcePath     string `json:"sourcePath"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
	CreatedDisplay string `json:"createdDisplay"`
	UpdatedDisplay string `json:"updatedDisplay"`
	ReadTime       string `json:"readTime"`
}

// Project is one project record. The same shape is used for the curated
// src/projects/projects.json input, GitHub-derived entries, and the
// normalized projects/projects.json output.
type Project struct {
	Slug              string   `json:"slug,omitempty"`
	Title             string   `json:"title,omitempty"`
	Description       string   `json:"description,omitempty"`
	CreatedAt         string   `json:"createdAt,omitempty"`
	UpdatedAt         string   `json:"updatedAt,omitempty"`
	CreatedDisplay    string   `json:"createdDisplay,omitempty"`
	UpdatedDisplay    string   `json:"updatedDisplay,omitempty"`
	Date              string   `json:"date,omitempty"`
	Href              string   `json:"href,omitempty"`
	Link              string   `json:"link,omitempty"`
	Repo              string   `json:"repo,omitempty"`
	Status            string   `json:"status,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	Thumbnail         string   `json:"thumbnail,omitempty"`
	ThumbnailFallback string   `json:"thumbnailFallback,omitempty"`
}

// ProjectRow is the normalized projects/projects.json record. Display fields are
// always present.
type ProjectRow struct {
	Slug              string   `json:"slug"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
	CreatedDisplay    string   `json:"createdDisplay"`
	UpdatedDisplay    string   `json:"updatedDisplay"`
	Date              string   `json:"date"`
	Href              string   `json:"href"`
	Repo              string   `json:"repo"`
	Status            string   `json:"status"`
	Tags              []string `json:"tags"`
	Thumbnail         string   `json:"thumbnail,omitempty"`
	ThumbnailFallback string   `json:"thumbnailFallback,omitempty"`
}

// DecodeProjects parses a JSON array of projects. Anything other than an
// array is an error and yields no projects. Entries are decoded one by one:
// an entry that is not an object is skipped, and a field of the wrong type
// is left empty while the rest of its entry is kept. Such problems are
// returned joined in the error next to the usable projects.
func DecodeProjects(data []byte) ([]Project, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return []Project{}, fmt.Errorf("manifest: expected a JSON array")
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return []Project{}, fmt.Errorf("manifest: %w", err)
	}

	projects := make([]Project, 0, len(entries))
	var errs []error
	for i, raw := range entries {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			errs = append(errs, fmt.Errorf("manifest: entry %d: not an object, skipped", i))
			continue
		}
		var p Project
		if err := json.Unmarshal(raw, &p); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				errs = append(errs, fmt.Errorf("manifest: entry %d: %w", i, err))
				continue
			}
			// The decoder skips mistyped fields and fills in the rest.
			errs = append(errs, fmt.Errorf("manifest: entry %d: field %q ignored: %w", i, typeErr.Field, err))
		}
		projects = append(projects, p)
	}
	return projects, errors.Join(errs...)
}

// ReadProjects loads a project list from path. A missing file yields an
// empty list and no error. Unusable files return an empty list with the
// error; skipped entries or fields return the remaining projects with the
// error, so callers can log it and continue.
func ReadProjects(path string) ([]Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Project{}, nil
		}
		return []Project{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	projects, err := DecodeProjects(data)
	if err != nil {
		return projects, fmt.Errorf("%w (%s)", err, path)
	}
	return projects, nil
}

// Encode returns v as two-space indented JSON.
func Encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Write encodes v with Encode and writes it to path, creating parent
// directories.
func Write(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("manifest: encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
