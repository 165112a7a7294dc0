package collectors

import (
	"context"
	"testing"

	"github.com/driftless-hq/driftless-sub001/internal/facts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandCollector_TextFormat(t *testing.T) {
	out, err := CommandCollector(context.Background(), facts.CollectorConfig{
		Name:    "uptime_check",
		Options: map[string]interface{}{"command": "echo hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", out["output"])
}

func TestCommandCollector_KeyValueFormat(t *testing.T) {
	out, err := CommandCollector(context.Background(), facts.CollectorConfig{
		Name:    "kv_check",
		Options: map[string]interface{}{"command": "printf 'a=1\\nb=2\\n'", "format": "key_value"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1", out["a"])
	assert.Equal(t, "2", out["b"])
}

func TestCommandCollector_JSONFormat(t *testing.T) {
	out, err := CommandCollector(context.Background(), facts.CollectorConfig{
		Name:    "json_check",
		Options: map[string]interface{}{"command": `echo '{"k":"v"}'`, "format": "json"},
	})
	require.NoError(t, err)
	assert.Equal(t, "v", out["k"])
}

func TestParsePluginComponentName(t *testing.T) {
	plugin, component, err := ParsePluginComponentName("myplugin.mycollector")
	require.NoError(t, err)
	assert.Equal(t, "myplugin", plugin)
	assert.Equal(t, "mycollector", component)

	_, _, err = ParsePluginComponentName("invalid")
	assert.Error(t, err)
}
