// Package config loads and validates the agent's on-disk configuration:
// the top-level agent config (logging, apply interval, dry-run, plugin
// host limits), the apply task list, and the facts collector config,
// each read from its own YAML file rooted at a config directory.
package config

import "time"

// AgentConfig is the top-level configuration for the driftless agent process.
// It is loaded once at startup from <configDir>/config.yaml and controls the
// ambient behavior of the apply loop, the facts loop, and the plugin host.
type AgentConfig struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"logLevel,omitempty"`

	// DryRun forces every apply run into dry-run mode regardless of CLI flags.
	DryRun bool `yaml:"dryRun,omitempty"`

	// ApplyInterval controls how often the apply loop reloads and re-applies
	// the configured task list. Zero means "run once and exit".
	ApplyInterval time.Duration `yaml:"applyInterval,omitempty"`

	// Plugin holds the plugin host's directory and security policy.
	Plugin PluginHostConfig `yaml:"plugin,omitempty"`
}

// PluginHostConfig configures the plugin host's discovery directory and the
// security policy applied to every loaded module.
type PluginHostConfig struct {
	// Dir is the directory scanned for *.wasm plugin modules.
	Dir string `yaml:"dir,omitempty"`

	// Eager is parsed but not consulted: Agent.Run loads every discovered
	// plugin at startup whatever its value, and plugins are never loaded
	// lazily on first use.
	Eager bool `yaml:"eager,omitempty"`

	// MaxFileSizeBytes rejects plugin files larger than this (default ~50MiB).
	MaxFileSizeBytes int64 `yaml:"maxFileSizeBytes,omitempty"`

	// MaxMemoryBytes caps a plugin instance's linear memory.
	MaxMemoryBytes int64 `yaml:"maxMemoryBytes,omitempty"`

	// FuelPerCall is the instruction budget granted to a single plugin call.
	FuelPerCall uint64 `yaml:"fuelPerCall,omitempty"`

	// EpochPeriod is the real-time tick at which the epoch counter advances.
	EpochPeriod time.Duration `yaml:"epochPeriod,omitempty"`

	// MaxEpochTicks is how many epoch ticks a call may run before interruption.
	MaxEpochTicks uint64 `yaml:"maxEpochTicks,omitempty"`

	// MaxStackBytes caps a plugin instance's stack size.
	MaxStackBytes int `yaml:"maxStackBytes,omitempty"`

	// MaxMemories / MaxTables cap the number of memory/table imports.
	// Memories and tables a module defines itself are not counted.
	MaxMemories int `yaml:"maxMemories,omitempty"`
	MaxTables   int `yaml:"maxTables,omitempty"`

	// AllowSystemInterface permits an explicit allow-list of system-interface
	// imports. Disabled by default.
	AllowSystemInterface bool `yaml:"allowSystemInterface,omitempty"`

	// AllowedSystemInterfaceImports names the specific system-interface
	// functions permitted when AllowSystemInterface is true.
	AllowedSystemInterfaceImports []string `yaml:"allowedSystemInterfaceImports,omitempty"`

	// Debug enables verbose sandboxed-module diagnostics.
	Debug bool `yaml:"debug,omitempty"`
}
