package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/driftless-hq/driftless-sub001/internal/config"
	"github.com/driftless-hq/driftless-sub001/internal/facts"
	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeApplyConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "apply.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNew_BuildsRegistriesAndSkipsPluginHostWhenNoDirConfigured(t *testing.T) {
	a, err := New(config.AgentConfig{}, facts.Config{}, "", false)
	require.NoError(t, err)
	assert.Nil(t, a.PluginHost)
	assert.Nil(t, a.Orchestrator)
	assert.NotEmpty(t, a.TaskRegistry.Kinds())
	assert.Contains(t, a.TaskRegistry.Kinds(), "debug")
}

func TestNew_BuildsOrchestratorWhenFactsEnabled(t *testing.T) {
	factsCfg := facts.Config{Global: facts.GlobalSettings{Enabled: true, PollInterval: 30}}
	a, err := New(config.AgentConfig{}, factsCfg, "", false)
	require.NoError(t, err)
	assert.NotNil(t, a.Orchestrator)
}

func TestApplyOnce_RunsTasksAgainstFreshVariableContext(t *testing.T) {
	path := writeApplyConfig(t, `
vars:
  greeting: hello
tasks:
  - type: set_fact
    key: seen
    value: "{{ greeting }}"
`)
	a, err := New(config.AgentConfig{}, facts.Config{}, path, false)
	require.NoError(t, err)

	results, err := a.ApplyOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, task.OutcomeOK, results[0].Outcome)
	assert.Equal(t, "hello", results[0].Data["seen"])
}

func TestApplyOnce_AbortsBeforeAnyTaskOnValidationFailure(t *testing.T) {
	path := writeApplyConfig(t, `
tasks:
  - type: fail
  - type: debug
    msg: "never reached"
`)
	a, err := New(config.AgentConfig{}, facts.Config{}, path, false)
	require.NoError(t, err)

	results, err := a.ApplyOnce(context.Background())
	require.Error(t, err)
	assert.Empty(t, results)
}

func TestRun_OneShotApplyCompletesWithoutOrchestrator(t *testing.T) {
	path := writeApplyConfig(t, `
tasks:
  - type: debug
    msg: "hi"
`)
	a, err := New(config.AgentConfig{}, facts.Config{}, path, false)
	require.NoError(t, err)

	err = a.Run(context.Background())
	require.NoError(t, err)
}
