package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ModificationStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modifications.json")
	return New(path, nil), path
}

func TestLoadMissingFile(t *testing.T) {
	s, _ := newTestStore(t)

	entries, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveAndLoad(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Save("be concise"))
	require.NoError(t, s.Save("add buffer time"))
	require.NoError(t, s.Save("include travel time"))

	entries, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"be concise", "add buffer time", "include travel time"}, entries)
}

func TestSaveOnlyAppends(t *testing.T) {
	s, _ := newTestStore(t)

	var want []string
	for _, entry := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.Save(entry))
		want = append(want, entry)

		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, want, got, "log must grow monotonically, preserving order")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not JSON", content: "this is not json"},
		{name: "JSON array instead of object", content: `["a", "b"]`},
		{name: "unsupported version", content: `{"version": 99, "entries": ["a"]}`},
		{name: "empty file", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, path := newTestStore(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			entries, err := s.Load()
			require.NoError(t, err, "corruption must not be fatal")
			assert.Empty(t, entries)
		})
	}
}

func TestSaveRecoversFromCorruptFile(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	require.NoError(t, s.Save("fresh start"))

	entries, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh start"}, entries)
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "modifications.json")
	s := New(path, nil)

	require.NoError(t, s.Save("entry"))

	entries, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"entry"}, entries)
}
