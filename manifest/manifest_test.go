package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadProjectsMissingFile(t *testing.T) {
	projects, err := ReadProjects(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestReadProjectsMalformed(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"broken.json": `[{"title": "x",`,
		"object.json": `{"title": "not an array"}`,
		"empty.json":  ``,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		projects, err := ReadProjects(path)
		assert.Error(t, err, name)
		assert.NotNil(t, projects, name)
		assert.Empty(t, projects, name)
	}
}

func TestReadProjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	body := `[
  {"title": "Folio", "createdAt": "2024-02-01", "tags": ["go", "web"], "link": "https://example.com"},
  {"slug": "second"}
]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	projects, err := ReadProjects(path)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Folio", projects[0].Title)
	assert.Equal(t, []string{"go", "web"}, projects[0].Tags)
	assert.Equal(t, "https://example.com", projects[0].Link)
	assert.Equal(t, "second", projects[1].Slug)
}

func TestDecodeProjectsKeepsGoodEntries(t *testing.T) {
	body := `[
  {"title": "Keep Me", "tags": ["go"]},
  {"title": "Typo", "tags": "go", "createdAt": 2024, "repo": "https://github.com/ada/typo"},
  "not an object",
  {"slug": "last"}
]`
	projects, err := DecodeProjects([]byte(body))
	assert.Error(t, err)
	require.Len(t, projects, 3)

	assert.Equal(t, "Keep Me", projects[0].Title)
	assert.Equal(t, []string{"go"}, projects[0].Tags)

	assert.Equal(t, "Typo", projects[1].Title)
	assert.Nil(t, projects[1].Tags)
	assert.Empty(t, projects[1].CreatedAt)
	assert.Equal(t, "https://github.com/ada/typo", projects[1].Repo)

	assert.Equal(t, "last", projects[2].Slug)
}

func TestReadProjectsReturnsUsableEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title": "A"}, {"title": "B", "tags": "x"}]`), 0o644))

	projects, err := ReadProjects(path)
	assert.Error(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "B", projects[1].Title)
}

func TestEncodeIndentsAndKeepsEmptyTags(t *testing.T) {
	data, err := Encode([]ProjectRow{{Slug: "a", Tags: []string{}}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"slug\": \"a\",")
	assert.Contains(t, string(data), `"tags": []`)
}

func TestWriteCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts", "posts.json")
	require.NoError(t, Write(path, []Post{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
