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

// enumerationExportsWat declares the seven required enumeration exports
// (spec.md §4.5) as trivial i32-returning functions, with no imports.
const enumerationExportsWat = `(module
  (func $f0 (result i32) i32.const 0)
  (func $f1 (result i32) i32.const 0)
  (func $f2 (result i32) i32.const 0)
  (func $f3 (result i32) i32.const 0)
  (func $f4 (result i32) i32.const 0)
  (func $f5 (result i32) i32.const 0)
  (func $f6 (result i32) i32.const 0)
  (export "get_task_definitions" (func $f0))
  (export "get_facts_collectors" (func $f1))
  (export "get_template_extensions" (func $f2))
  (export "get_log_sources" (func $f3))
  (export "get_log_parsers" (func $f4))
  (export "get_log_filters" (func $f5))
  (export "get_log_outputs" (func $f6)))`

// forbiddenImportWat is the same module, plus an import of the forbidden
// wasi_snapshot_preview1.fd_write system-interface function (spec.md §4.5
// step 3).
const forbiddenImportWat = `(module
  (import "wasi_snapshot_preview1" "fd_write" (func $fd_write (param i32 i32 i32 i32) (result i32)))
  (func $f0 (result i32) i32.const 0)
  (func $f1 (result i32) i32.const 0)
  (func $f2 (result i32) i32.const 0)
  (func $f3 (result i32) i32.const 0)
  (func $f4 (result i32) i32.const 0)
  (func $f5 (result i32) i32.const 0)
  (func $f6 (result i32) i32.const 0)
  (export "get_task_definitions" (func $f0))
  (export "get_facts_collectors" (func $f1))
  (export "get_template_extensions" (func $f2))
  (export "get_log_sources" (func $f3))
  (export "get_log_parsers" (func $f4))
  (export "get_log_filters" (func $f5))
  (export "get_log_outputs" (func $f6)))`

func writeWat(t *testing.T, wat string) string {
	t.Helper()
	wasmBytes, err := wasmtime.Wat2Wasm(wat)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "plugin.wasm")
	require.NoError(t, os.WriteFile(path, wasmBytes, 0o644))
	return path
}

// S3: a module exporting all seven required enumeration functions and no
// forbidden imports passes validation outright.
func TestScenario_ModuleWithAllEnumerationExportsValidates(t *testing.T) {
	path := writeWat(t, enumerationExportsWat)

	policy := NewPolicy(config.PluginHostConfig{})
	engine := wasmtime.NewEngine()

	result, err := validateFile(engine, path, policy)
	require.NoError(t, err)
	assert.True(t, result.OK(), "errors: %v", result.Errors)
	assert.Len(t, result.Exports, 7)
}

// S4: a module importing the forbidden wasi_snapshot_preview1.fd_write
// system-interface function is rejected, even though it otherwise exports
// every required enumeration function.
func TestScenario_ModuleImportingForbiddenSystemInterfaceIsRejected(t *testing.T) {
	path := writeWat(t, forbiddenImportWat)

	policy := NewPolicy(config.PluginHostConfig{})
	engine := wasmtime.NewEngine()

	result, err := validateFile(engine, path, policy)
	require.NoError(t, err)
	assert.False(t, result.OK())
	found := false
	for _, e := range result.Errors {
		if e == "forbidden system-interface import wasi_snapshot_preview1.fd_write" {
			found = true
		}
	}
	assert.True(t, found, "errors: %v", result.Errors)
}
