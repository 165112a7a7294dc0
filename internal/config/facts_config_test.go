package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFactsConfig_MissingFileReturnsEmptyNotError(t *testing.T) {
	cfg, err := LoadFactsConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.Global.Enabled)
	assert.Empty(t, cfg.Collectors)
}

func TestLoadFactsConfig_RejectsDuplicateCollectorNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
global:
  enabled: true
collectors:
  - type: cpu
    name: dup
  - type: memory
    name: dup
`), 0644))

	_, err := LoadFactsConfig(path)
	assert.ErrorContains(t, err, "duplicate collector name")
}

func TestLoadFactsConfig_ParsesValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
global:
  enabled: true
  poll_interval: 30
collectors:
  - type: cpu
    name: cpu0
    enabled: true
`), 0644))

	cfg, err := LoadFactsConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Global.Enabled)
	require.Len(t, cfg.Collectors, 1)
	assert.Equal(t, "cpu0", cfg.Collectors[0].Name)
}
