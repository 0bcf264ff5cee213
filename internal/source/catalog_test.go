package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Len(t, c.Resources, 15)

	seen := make(map[string]bool)
	for _, r := range c.Resources {
		assert.False(t, seen[r.Name], "duplicate resource %q", r.Name)
		seen[r.Name] = true
		assert.NotEmpty(t, r.URL, "resource %q has no URL", r.Name)
		assert.NotEmpty(t, r.Kind, "resource %q has no kind", r.Name)
	}

	for _, cat := range Categories() {
		_, ok := c.Get(facilityResource(cat))
		assert.True(t, ok, "category %q has no catalog resource", cat)
	}
}

func TestCatalogGet(t *testing.T) {
	c := DefaultCatalog()

	res, ok := c.Get(ResourceBoundaries)
	require.True(t, ok)
	assert.Equal(t, KindBoundaries, res.Kind)

	_, ok = c.Get("nope")
	assert.False(t, ok)
}

func TestLoadCatalog(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
resources:
  - name: boundaries
    kind: boundaries
    url: http://localhost:9999/municipis.geojson
  - name: votes
    kind: records
    url: http://localhost:9999/votes.json
`), 0o644))

		c, err := LoadCatalog(path)
		require.NoError(t, err)
		assert.Len(t, c.Resources, 2)

		res, ok := c.Get("votes")
		require.True(t, ok)
		assert.Equal(t, KindRecords, res.Kind)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("resources: []\n"), 0o644))
		_, err := LoadCatalog(path)
		assert.Error(t, err)
	})
}
