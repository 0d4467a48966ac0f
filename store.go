package folio

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/folio/manifest"
	"github.com/eringen/folio/repos"
)

// ErrNotFound is returned when no cached project list exists for a user.
var ErrNotFound = sql.ErrNoRows

// Store wraps the SQLite database holding the last successful GitHub fetch
// for each user.
type Store struct {
	db *sql.DB
}

var _ repos.Cache = (*Store)(nil)

// NewStore opens (or creates) the SQLite database at path, ensures its
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL with a busy timeout lets a running dev server and a one-off
	// `folio build` share the file.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS github_cache (
    username TEXT PRIMARY KEY,
    fetched_at TEXT NOT NULL,
    projects TEXT NOT NULL
);
`)
	return err
}

// SaveProjects replaces the cached list for username.
func (s *Store) SaveProjects(username string, projects []manifest.Project, fetchedAt time.Time) error {
	if projects == nil {
		projects = []manifest.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("store: encode projects: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO github_cache (username, fetched_at, projects) VALUES (?, ?, ?)
ON CONFLICT(username) DO UPDATE SET fetched_at=excluded.fetched_at, projects=excluded.projects`,
		username, fetchedAt.UTC().Format(time.RFC3339Nano), string(data))
	if err != nil {
		return fmt.Errorf("store: save projects for %s: %w", username, err)
	}
	return nil
}

// LoadProjects returns the cached list for username, or ErrNotFound.
func (s *Store) LoadProjects(username string) (repos.Snapshot, error) {
	var fetchedAt, data string
	err := s.db.QueryRow(`SELECT fetched_at, projects FROM github_cache WHERE username = ?`, username).
		Scan(&fetchedAt, &data)
	if err != nil {
		return repos.Snapshot{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return repos.Snapshot{}, fmt.Errorf("store: bad fetched_at %q: %w", fetchedAt, err)
	}
	var projects []manifest.Project
	if err := json.Unmarshal([]byte(data), &projects); err != nil {
		return repos.Snapshot{}, fmt.Errorf("store: decode projects for %s: %w", username, err)
	}
	return repos.Snapshot{FetchedAt: at, Projects: projects}, nil
}
