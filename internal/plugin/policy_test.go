package plugin

import (
	"testing"

	"github.com/driftless-hq/driftless-sub001/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewPolicy_FillsZeroedLimitsFromDefaults(t *testing.T) {
	p := NewPolicy(config.PluginHostConfig{Dir: "custom-plugins"})

	assert.Equal(t, "custom-plugins", p.Dir)
	assert.Greater(t, p.MaxFileSizeBytes, int64(0))
	assert.Greater(t, p.MaxMemoryBytes, int64(0))
	assert.Greater(t, p.FuelPerCall, uint64(0))
	assert.Greater(t, p.MaxEpochTicks, uint64(0))
}

func TestNewPolicy_PreservesExplicitLimits(t *testing.T) {
	p := NewPolicy(config.PluginHostConfig{MaxFileSizeBytes: 123, FuelPerCall: 7})

	assert.Equal(t, int64(123), p.MaxFileSizeBytes)
	assert.Equal(t, uint64(7), p.FuelPerCall)
}

func TestAllowedSystemInterfaceSet_BuildsFromList(t *testing.T) {
	p := Policy{PluginHostConfig: config.PluginHostConfig{
		AllowSystemInterface:          true,
		AllowedSystemInterfaceImports: []string{"clock_time_get", "random_get"},
	}}

	set := p.allowedSystemInterfaceSet()
	assert.True(t, set["clock_time_get"])
	assert.True(t, set["random_get"])
	assert.False(t, set["fd_write"])
}
