package config

import "time"

// defaultPluginMaxFileSizeBytes is the default plugin-module size cap (~50MiB),
// per spec.md's "reject if above the configured maximum (default ~50 MiB)".
const defaultPluginMaxFileSizeBytes = 50 * 1024 * 1024

// DefaultConfig returns the agent's built-in configuration, used when no
// config.yaml is present and as the base that a loaded file overlays.
func DefaultConfig() AgentConfig {
	return AgentConfig{
		LogLevel:      "info",
		ApplyInterval: 0,
		Plugin: PluginHostConfig{
			Dir:              "plugins",
			MaxFileSizeBytes: defaultPluginMaxFileSizeBytes,
			MaxMemoryBytes:   256 * 1024 * 1024,
			FuelPerCall:      10_000_000,
			EpochPeriod:      50 * time.Millisecond,
			MaxEpochTicks:    20,
			MaxStackBytes:    1 * 1024 * 1024,
			MaxMemories:      1,
			MaxTables:        4,
		},
	}
}
