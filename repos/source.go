package repos

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eringen/folio/manifest"
)

// DefaultMaxProjects caps the GitHub-derived list when no limit is configured.
const DefaultMaxProjects = 50

// WatchMemoTTL is how long a fetched list is reused between watcher
// rebuilds when no cache TTL is configured. An unauthenticated client gets
// 60 requests an hour.
const WatchMemoTTL = 10 * time.Minute

// Snapshot is a cached project list and the time it was fetched.
type Snapshot struct {
	FetchedAt time.Time
	Projects  []manifest.Project
}

// Cache persists the last successful fetch per user.
type Cache interface {
	LoadProjects(username string) (Snapshot, error)
	SaveProjects(username string, projects []manifest.Project, fetchedAt time.Time) error
}

// Options configures a Source.
type Options struct {
	Username    string
	SortBy      string
	MaxProjects int
	// CacheTTL, when positive, serves a cached list younger than the TTL
	// without calling GitHub.
	CacheTTL time.Duration
	// MemoTTL is how long a fetched list is reused in memory. It defaults
	// to CacheTTL; a longer value also applies when CacheTTL is zero.
	MemoTTL time.Duration
	Filters Filters
}

// Source produces a user's GitHub projects, falling back to the cache when
// GitHub cannot be reached.
type Source struct {
	client *Client
	cache  Cache
	opts   Options
	log    logrus.FieldLogger
	now    func() time.Time

	mu      sync.RWMutex
	memo    []manifest.Project
	memoAt  time.Time
	hasMemo bool
}

// NewSource creates a Source. cache may be nil.
func NewSource(client *Client, cache Cache, opts Options, log logrus.FieldLogger) *Source {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.MaxProjects <= 0 {
		opts.MaxProjects = DefaultMaxProjects
	}
	if opts.MemoTTL < opts.CacheTTL {
		opts.MemoTTL = opts.CacheTTL
	}
	return &Source{
		client: client,
		cache:  cache,
		opts:   opts,
		log:    log.WithField("github_user", opts.Username),
		now:    time.Now,
	}
}

// Projects returns the user's projects. It never fails: a fetch error falls
// back to the cached list, and to an empty list when there is none.
func (s *Source) Projects(ctx context.Context) []manifest.Project {
	if s.opts.Username == "" {
		return []manifest.Project{}
	}
	if projects, ok := s.fresh(); ok {
		return projects
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memoValid() {
		return s.memo
	}
	if snap, ok := s.freshCache(); ok {
		s.remember(snap.Projects, snap.FetchedAt)
		return snap.Projects
	}

	projects, err := s.Fetch(ctx)
	if err != nil {
		s.log.WithError(err).Error("github fetch failed")
		return s.fallback()
	}
	at := s.now()
	if s.cache != nil {
		if err := s.cache.SaveProjects(s.opts.Username, projects, at); err != nil {
			s.log.WithError(err).Warn("could not write github cache")
		}
	}
	s.remember(projects, at)
	return projects
}

// Fetch always calls GitHub: list, filter, topics, map, sort, limit.
func (s *Source) Fetch(ctx context.Context) ([]manifest.Project, error) {
	list, err := s.client.ListRepos(ctx, s.opts.Username)
	if err != nil {
		return nil, err
	}
	s.log.WithField("count", len(list)).Info("found repositories")

	kept := s.opts.Filters.Filter(list)
	s.log.WithField("count", len(kept)).Debug("filtered repositories")

	now := s.now()
	projects := make([]manifest.Project, 0, len(kept))
	for _, r := range kept {
		topics, err := s.client.Topics(ctx, r.Owner, r.Name)
		if err != nil {
			s.log.WithError(err).WithField("repo", r.Name).Warn("could not fetch topics")
			topics = nil
		}
		if s.opts.Filters.NeedsTopics() && !s.opts.Filters.MatchesTopics(topics) {
			continue
		}
		projects = append(projects, MapRepo(r, topics, now))
	}

	Sort(projects, s.opts.SortBy)
	if len(projects) > s.opts.MaxProjects {
		projects = projects[:s.opts.MaxProjects]
	}
	s.log.WithField("count", len(projects)).Info("fetched projects from github")
	return projects, nil
}

func (s *Source) fallback() []manifest.Project {
	if s.cache != nil {
		snap, err := s.cache.LoadProjects(s.opts.Username)
		if err == nil {
			s.log.WithField("fetched_at", snap.FetchedAt.UTC().Format(time.RFC3339)).Warn("using cached github data")
			return snap.Projects
		}
	}
	s.log.Warn("no github cache available, continuing without github projects")
	return []manifest.Project{}
}

// fresh returns the in-memory list under a read lock when it is still valid.
func (s *Source) fresh() ([]manifest.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.memoValid() {
		return s.memo, true
	}
	return nil, false
}

func (s *Source) freshCache() (Snapshot, bool) {
	if s.cache == nil || s.opts.CacheTTL <= 0 {
		return Snapshot{}, false
	}
	snap, err := s.cache.LoadProjects(s.opts.Username)
	if err != nil || s.now().Sub(snap.FetchedAt) >= s.opts.CacheTTL {
		return Snapshot{}, false
	}
	s.log.Debug("serving github projects from cache")
	return snap, true
}

func (s *Source) memoValid() bool {
	return s.hasMemo && s.opts.MemoTTL > 0 && s.now().Sub(s.memoAt) < s.opts.MemoTTL
}

func (s *Source) remember(projects []manifest.Project, at time.Time) {
	s.memo = projects
	s.memoAt = at
	s.hasMemo = true
}
