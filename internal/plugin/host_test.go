package plugin

import (
	"context"
	"testing"

	"github.com/driftless-hq/driftless-sub001/internal/config"
	"github.com/driftless-hq/driftless-sub001/internal/facts"
	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_EmptyDirectoryReturnsNoPlugins(t *testing.T) {
	h := New(t.TempDir(), NewPolicy(config.PluginHostConfig{}), task.NewRegistry(), facts.NewRegistry(), nil)
	defer h.Close()

	names, err := h.Scan()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLoadedPlugins_EmptyBeforeAnyLoad(t *testing.T) {
	h := New(t.TempDir(), NewPolicy(config.PluginHostConfig{}), task.NewRegistry(), facts.NewRegistry(), nil)
	defer h.Close()

	assert.Empty(t, h.LoadedPlugins())
}

func TestLoad_MissingFileFails(t *testing.T) {
	h := New(t.TempDir(), NewPolicy(config.PluginHostConfig{}), task.NewRegistry(), facts.NewRegistry(), nil)
	defer h.Close()

	err := h.Load(context.Background(), "nonexistent")
	assert.Error(t, err)
}
