package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dazca/municat/internal/config"
	"github.com/dazca/municat/internal/source"
)

func TestBuildSourceDefaultCatalog(t *testing.T) {
	cfg = &config.Config{
		HTTP: config.HTTPConfig{TimeoutSecs: 5, MaxRetries: 1, UserAgent: "test"},
	}

	src, catalog, err := buildSource()
	require.NoError(t, err)
	require.NotNil(t, src)
	assert.Len(t, catalog.Resources, 15)

	_, ok := catalog.Get(source.ResourceBoundaries)
	assert.True(t, ok)
}

func TestBuildSourceCatalogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	yaml := `
resources:
  - name: boundaries
    url: https://example.test/boundaries.geojson
    kind: boundaries
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg = &config.Config{
		Catalog: config.CatalogConfig{Path: path},
		HTTP:    config.HTTPConfig{TimeoutSecs: 5},
	}

	_, catalog, err := buildSource()
	require.NoError(t, err)
	require.Len(t, catalog.Resources, 1)

	res, ok := catalog.Get(source.ResourceBoundaries)
	require.True(t, ok)
	assert.Equal(t, "https://example.test/boundaries.geojson", res.URL)
}

func TestBuildSourceCatalogMissing(t *testing.T) {
	cfg = &config.Config{
		Catalog: config.CatalogConfig{Path: "/nonexistent/catalog.yaml"},
	}

	_, _, err := buildSource()
	assert.Error(t, err)
}

func TestBuildEngineDefaults(t *testing.T) {
	cfg = &config.Config{Fusion: config.FusionConfig{K: 0, Power: 0}}

	src, _, err := buildSource()
	require.NoError(t, err)
	assert.NotNil(t, buildEngine(src))
}
