package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FilesystemBackendRoundTrips(t *testing.T) {
	path := writeConfig(t, `
bind_to: "127.0.0.1:7090"
objectstore:
  type: filesystem
  root: /var/lib/rout3go
graphs:
  prefix: graphs/
  cache_size: 4
outputs:
  prefix: outputs/
datasets:
  population:
    key_pattern: "population_{file_h3_resolution}.arrow"
    resolutions:
      7: 5
    h3index_column_name: h3index
routing_modes:
  prefer_trunk:
    edge_preference_factor: 0.8
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7090", cfg.BindTo)
	assert.Equal(t, "filesystem", cfg.ObjectStore.Type)
	assert.Equal(t, 4, cfg.Graphs.CacheSize)
	assert.Contains(t, cfg.Datasets, "population")
}

func TestRoutingModeFactor_EmptyNameIsExactMode(t *testing.T) {
	cfg := &ServerConfig{RoutingModes: map[string]RoutingModeConfig{}}
	factor, err := cfg.RoutingModeFactor("")
	require.NoError(t, err)
	assert.Equal(t, 0.0, factor)
}

func TestRoutingModeFactor_UnknownNameErrors(t *testing.T) {
	cfg := &ServerConfig{RoutingModes: map[string]RoutingModeConfig{}}
	_, err := cfg.RoutingModeFactor("does-not-exist")
	assert.Error(t, err)
}

func TestRoutingModeFactor_ResolvesConfiguredFactor(t *testing.T) {
	factor := 2.5
	cfg := &ServerConfig{RoutingModes: map[string]RoutingModeConfig{
		"prefer_trunk": {EdgePreferenceFactor: &factor},
	}}
	got, err := cfg.RoutingModeFactor("prefer_trunk")
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)
}

func TestDatasetConfig_FileResolutionLooksUpConfiguredMapping(t *testing.T) {
	d := DatasetConfig{Resolutions: map[int]int{7: 5}}
	got, err := d.FileResolution(7)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	_, err = d.FileResolution(9)
	assert.Error(t, err)
}

func TestValidate_RejectsMissingObjectStoreType(t *testing.T) {
	cfg := &ServerConfig{BindTo: "127.0.0.1:7090"}
	assert.Error(t, Validate(cfg))
}
