package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiRepo struct {
	Name      string         `json:"name"`
	Owner     map[string]any `json:"owner"`
	HTMLURL   string         `json:"html_url"`
	CreatedAt string         `json:"created_at"`
	PushedAt  string         `json:"pushed_at"`
	Fork      bool           `json:"fork,omitempty"`
	Stars     int            `json:"stargazers_count"`
}

func repoJSON(owner, name string) apiRepo {
	return apiRepo{
		Name:      name,
		Owner:     map[string]any{"login": owner, "avatar_url": "https://avatars.example/" + owner},
		HTMLURL:   "https://github.com/" + owner + "/" + name,
		CreatedAt: "2021-03-04T10:00:00Z",
		PushedAt:  "2024-06-30T10:00:00Z",
	}
}

// newTestClient points a Client at a local server.
func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.Client(), "", srv.URL)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListReposPaginates(t *testing.T) {
	var pages []string
	mux := http.NewServeMux()
	mux.HandleFunc("/users/ada/repos", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		assert.Equal(t, "owner", r.URL.Query().Get("type"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		if page == "" || page == "1" {
			batch := make([]apiRepo, perPage)
			for i := range batch {
				batch[i] = repoJSON("ada", fmt.Sprintf("repo-%d", i))
			}
			writeJSON(w, http.StatusOK, batch)
			return
		}
		writeJSON(w, http.StatusOK, []apiRepo{repoJSON("ada", "last")})
	})

	c := newTestClient(t, mux)
	list, err := c.ListRepos(context.Background(), "ada")
	require.NoError(t, err)
	assert.Len(t, list, perPage+1)
	assert.Len(t, pages, 2)

	last := list[len(list)-1]
	assert.Equal(t, "last", last.Name)
	assert.Equal(t, "ada", last.Owner)
	assert.Equal(t, "https://avatars.example/ada", last.OwnerAvatar)
	assert.Equal(t, "https://github.com/ada/last", last.HTMLURL)
	assert.Equal(t, time.Date(2024, 6, 30, 10, 0, 0, 0, time.UTC), last.PushedAt.UTC())
}

func TestListReposErrors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		}))
		_, err := c.ListRepos(context.Background(), "ghost")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `user "ghost" not found`)
	})

	t.Run("rate limited", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Limit", "60")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", "1700000000")
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "API rate limit exceeded"})
		}))
		_, err := c.ListRepos(context.Background(), "ada")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limit exceeded, resets at 2023-11-14T22:13:20Z")
	})

	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"message": "bad gateway"})
		}))
		_, err := c.ListRepos(context.Background(), "ada")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api returned 502")
	})

	t.Run("timeout", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		c.listTimeout = 20 * time.Millisecond
		_, err := c.ListRepos(context.Background(), "ada")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "request timeout after 20ms")
	})
}

func TestTopics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/ada/folio/topics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"names": {"go", "static-site"}})
	})
	c := newTestClient(t, mux)

	topics, err := c.Topics(context.Background(), "ada", "folio")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "static-site"}, topics)

	_, err = c.Topics(context.Background(), "ada", "missing")
	assert.Error(t, err)
}

func TestNewClientBaseURL(t *testing.T) {
	c, err := NewClient(nil, "token", "https://ghe.example/api/v3")
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example/api/v3/", c.gh.BaseURL.String())
	assert.Equal(t, userAgent, c.gh.UserAgent)

	_, err = NewClient(nil, "", "://bad")
	assert.Error(t, err)
}
