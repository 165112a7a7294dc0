package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadApplyConfig_MissingFileErrors(t *testing.T) {
	_, err := LoadApplyConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadApplyConfig_ParsesTasksAndVars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apply.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vars:
  env: production
tasks:
  - type: debug
    msg: "hello {{ env }}"
`), 0644))

	cfg, err := LoadApplyConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Vars["env"])
	require.Len(t, cfg.Tasks, 1)
	assert.Equal(t, "debug", cfg.Tasks[0].Type)
}
