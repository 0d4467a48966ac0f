// Package repos turns a GitHub user's public repositories into portfolio
// project entries.
package repos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

const (
	perPage       = 100
	listTimeout   = 10 * time.Second
	topicsTimeout = 5 * time.Second
	userAgent     = "folio-portfolio-builder"
)

// Repo is the subset of a GitHub repository the builder consumes.
type Repo struct {
	Name        string
	Owner       string
	OwnerAvatar string
	Description string
	CreatedAt   time.Time
	PushedAt    time.Time
	Archived    bool
	Fork        bool
	Stars       int
	Homepage    string
	HTMLURL     string
}

// Client reads repository listings and topics from the GitHub REST API.
type Client struct {
	gh            *github.Client
	listTimeout   time.Duration
	topicsTimeout time.Duration
}

// NewClient creates a Client. token may be empty for unauthenticated access
// (60 requests/hour). baseURL overrides https://api.github.com/ when set.
func NewClient(httpClient *http.Client, token, baseURL string) (*Client, error) {
	gh := github.NewClient(httpClient)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github: invalid base url %q: %w", baseURL, err)
		}
		gh.BaseURL = u
	}
	gh.UserAgent = userAgent
	return &Client{
		gh:            gh,
		listTimeout:   listTimeout,
		topicsTimeout: topicsTimeout,
	}, nil
}

// ListRepos returns every repository owned by user, most recently updated
// first. Pages are requested one at a time until a short page is returned.
func (c *Client) ListRepos(ctx context.Context, user string) ([]Repo, error) {
	var all []Repo
	for page := 1; ; page++ {
		batch, err := c.listPage(ctx, user, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			return all, nil
		}
	}
}

func (c *Client) listPage(ctx context.Context, user string, page int) ([]Repo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	opts := &github.RepositoryListByUserOptions{
		Type: "owner",
		Sort: "updated",
		ListOptions: github.ListOptions{
			PerPage: perPage,
			Page:    page,
		},
	}
	list, resp, err := c.gh.Repositories.ListByUser(ctx, user, opts)
	if err != nil {
		return nil, describeError(user, resp, err, c.listTimeout)
	}
	out := make([]Repo, 0, len(list))
	for _, r := range list {
		out = append(out, fromGitHub(r))
	}
	return out, nil
}

// Topics returns the topics attached to owner/name.
func (c *Client) Topics(ctx context.Context, owner, name string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.topicsTimeout)
	defer cancel()

	topics, resp, err := c.gh.Repositories.ListAllTopics(ctx, owner, name)
	if err != nil {
		return nil, describeError(owner, resp, err, c.topicsTimeout)
	}
	return topics, nil
}

func fromGitHub(r *github.Repository) Repo {
	return Repo{
		Name:        r.GetName(),
		Owner:       r.GetOwner().GetLogin(),
		OwnerAvatar: r.GetOwner().GetAvatarURL(),
		Description: r.GetDescription(),
		CreatedAt:   r.GetCreatedAt().Time,
		PushedAt:    r.GetPushedAt().Time,
		Archived:    r.GetArchived(),
		Fork:        r.GetFork(),
		Stars:       r.GetStargazersCount(),
		Homepage:    r.GetHomepage(),
		HTMLURL:     r.GetHTMLURL(),
	}
}

func describeError(user string, resp *github.Response, err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("github: request timeout after %s: %w", timeout, err)
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("github: rate limit exceeded, resets at %s: %w", formatReset(rateErr.Rate.Reset.Time), err)
	}
	if resp == nil {
		return fmt.Errorf("github: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("github: user %q not found: %w", user, err)
	case http.StatusForbidden:
		return fmt.Errorf("github: rate limit exceeded, resets at %s: %w", formatReset(resp.Rate.Reset.Time), err)
	default:
		return fmt.Errorf("github: api returned %d: %w", resp.StatusCode, err)
	}
}

func formatReset(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}
