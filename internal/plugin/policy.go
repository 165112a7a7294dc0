// Package plugin implements the sandboxed WASM plugin host (spec.md §4.5):
// it scans a directory for candidate modules, validates each through a
// six-step pipeline, and loads survivors into a resource-capped wasmtime
// runtime, registering their contributions (task kinds, facts collectors,
// template filters/functions, log processors) under a
// "<plugin_name>.<contribution_name>" composite key. Grounded on
// wasmtime-go/v3's fuel/epoch-interruption API — the only pack dependency
// whose vocabulary (fuel, epoch deadline, linear memory cap) matches
// spec.md §4.5's security policy directly — and on the teacher's
// contribution-registration pattern (internal/capability/manager.go's
// aggregation of named capabilities into a lookup table).
package plugin

import (
	"github.com/driftless-hq/driftless-sub001/internal/config"
)

// forbiddenSystemInterfaceImports names the system-interface-namespace
// imports every plugin is denied regardless of policy (spec.md §4.5 step 3).
var forbiddenSystemInterfaceImports = map[string]bool{
	"fd_read":    true,
	"fd_write":   true,
	"path_open":  true,
	"proc_exit":  true,
}

// forbiddenEnvImports names generic-environment-namespace imports that are
// always denied.
var forbiddenEnvImports = map[string]bool{
	"syscall":   true,
	"system":    true,
	"__syscall": true,
	"socket":    true,
	"connect":   true,
}

// dangerousExportPatterns names substrings that make an export name
// suspicious enough to warn on, without blocking load (spec.md §4.5 step 5).
var dangerousExportPatterns = []string{"syscall", "exec", "spawn", "dangerous"}

const systemInterfaceNamespace = "wasi_snapshot_preview1"

// Policy is the resolved security policy a Host validates and runs
// plugins under. It wraps config.PluginHostConfig directly; Host derives
// no additional state from it beyond what's already configured.
type Policy struct {
	config.PluginHostConfig
}

// NewPolicy returns a Policy from cfg, filling any zero-valued limits from
// config.DefaultConfig's plugin defaults.
func NewPolicy(cfg config.PluginHostConfig) Policy {
	defaults := config.DefaultConfig().Plugin
	if cfg.MaxFileSizeBytes == 0 {
		cfg.MaxFileSizeBytes = defaults.MaxFileSizeBytes
	}
	if cfg.MaxMemoryBytes == 0 {
		cfg.MaxMemoryBytes = defaults.MaxMemoryBytes
	}
	if cfg.FuelPerCall == 0 {
		cfg.FuelPerCall = defaults.FuelPerCall
	}
	if cfg.EpochPeriod == 0 {
		cfg.EpochPeriod = defaults.EpochPeriod
	}
	if cfg.MaxEpochTicks == 0 {
		cfg.MaxEpochTicks = defaults.MaxEpochTicks
	}
	if cfg.MaxStackBytes == 0 {
		cfg.MaxStackBytes = defaults.MaxStackBytes
	}
	if cfg.MaxMemories == 0 {
		cfg.MaxMemories = defaults.MaxMemories
	}
	if cfg.MaxTables == 0 {
		cfg.MaxTables = defaults.MaxTables
	}
	return Policy{PluginHostConfig: cfg}
}

// allowedSystemInterfaceSet returns the explicit allow-list of
// system-interface imports the policy permits, when AllowSystemInterface
// is set.
func (p Policy) allowedSystemInterfaceSet() map[string]bool {
	out := make(map[string]bool, len(p.AllowedSystemInterfaceImports))
	for _, name := range p.AllowedSystemInterfaceImports {
		out[name] = true
	}
	return out
}
