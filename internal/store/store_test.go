package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gsearch/gateway/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	s, err := store.Open(path)
	require.NoError(t, err)
	return s, path
}

func TestOpenCreatesMissingFile(t *testing.T) {
	_, path := openTemp(t)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.Open(path)
	assert.Error(t, err)
}

func TestGetDefaults(t *testing.T) {
	s, _ := openTemp(t)

	assert.Equal(t, "fallback", s.GetString("/openai/model", "fallback"))
	assert.Equal(t, 0.3, s.GetFloat("/openai/temperature", 0.3))
	assert.Equal(t, 12, s.GetInt("/openai/max_prompt", 12))
}

func TestSetGetRoundTrip(t *testing.T) {
	s, _ := openTemp(t)

	require.NoError(t, s.Set("/openai/model", "gpt-4o"))
	require.NoError(t, s.Set("/openai/temperature", 0.7))
	require.NoError(t, s.Set("/openai/max_prompt", 6))

	assert.Equal(t, "gpt-4o", s.GetString("/openai/model", ""))
	assert.Equal(t, 0.7, s.GetFloat("/openai/temperature", 0))
	assert.Equal(t, 6, s.GetInt("/openai/max_prompt", 0))
}

func TestSetPersistsAcrossReopen(t *testing.T) {
	s, path := openTemp(t)

	require.NoError(t, s.Set("/reddit/cache/golang", "/r/golang"))

	reopened, err := store.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "/r/golang", reopened.GetString("/reddit/cache/golang", ""))
}

func TestSetDeepPathCreatesIntermediates(t *testing.T) {
	s, _ := openTemp(t)

	require.NoError(t, s.Set("/a/b/c", "deep"))
	assert.Equal(t, "deep", s.GetString("/a/b/c", ""))
}

func TestUnmarshalStructuredValue(t *testing.T) {
	type entry struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}

	s, _ := openTemp(t)

	require.NoError(t, s.Set("/bookmarks", []entry{{Name: "x", URL: "https://x.test"}}))

	var out []entry
	ok, err := s.Unmarshal("/bookmarks", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "x", out[0].Name)

	ok, err = s.Unmarshal("/missing", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}
