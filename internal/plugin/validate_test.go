package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bytecodealliance/wasmtime-go/v3"
	"github.com/driftless-hq/driftless-sub001/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFile_RejectsOversizeModule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.wasm")
	require.NoError(t, os.WriteFile(path, make([]byte, 1024), 0o644))

	policy := NewPolicy(config.PluginHostConfig{MaxFileSizeBytes: 16})
	engine := wasmtime.NewEngine()

	result, err := validateFile(engine, path, policy)
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Contains(t, result.Errors[0], "exceeds max")
}

func TestValidateFile_RejectsUndecodableModule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.wasm")
	require.NoError(t, os.WriteFile(path, []byte("not a wasm module"), 0o644))

	policy := NewPolicy(config.PluginHostConfig{})
	engine := wasmtime.NewEngine()

	result, err := validateFile(engine, path, policy)
	require.NoError(t, err)
	assert.False(t, result.OK())
}

func TestValidateFile_MissingFileIsAnError(t *testing.T) {
	policy := NewPolicy(config.PluginHostConfig{})
	engine := wasmtime.NewEngine()

	_, err := validateFile(engine, filepath.Join(t.TempDir(), "absent.wasm"), policy)
	assert.Error(t, err)
}
