package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/driftless-hq/driftless-sub001/internal/facts"
)

// PluginInvoker is the seam the plugin host satisfies: CollectFacts marshals
// cfg.Options to JSON, invokes the named plugin's facts collector export,
// and unmarshals its result. Defined here (rather than imported from
// internal/plugin) so collectors never depends on the plugin package,
// matching the teacher's narrow-interface-at-the-boundary style.
type PluginInvoker interface {
	CollectFacts(ctx context.Context, pluginName, collectorName string, configJSON []byte) ([]byte, error)
}

// PluginCollector delegates to invoker, keyed by "<plugin_name>.<collector_name>"
// (spec.md §4.3).
func PluginCollector(invoker PluginInvoker) facts.Collector {
	return func(ctx context.Context, cfg facts.CollectorConfig) (map[string]interface{}, error) {
		pluginName, collectorName, err := ParsePluginComponentName(cfg.Name)
		if err != nil {
			return nil, err
		}

		configJSON, err := json.Marshal(cfg.Options)
		if err != nil {
			return nil, fmt.Errorf("marshalling plugin collector config: %w", err)
		}

		resultJSON, err := invoker.CollectFacts(ctx, pluginName, collectorName, configJSON)
		if err != nil {
			return nil, fmt.Errorf("plugin facts collector %s.%s failed: %w", pluginName, collectorName, err)
		}

		var result map[string]interface{}
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, fmt.Errorf("unmarshalling plugin collector result: %w", err)
		}
		return result, nil
	}
}

// ParsePluginComponentName splits a composite "<plugin_name>.<component_name>"
// key, grounded on original_source's parse_plugin_component_name helper
// (src/facts/orchestrator.rs).
func ParsePluginComponentName(composite string) (plugin, component string, err error) {
	parts := strings.SplitN(composite, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid plugin component name %q, expected \"<plugin>.<component>\"", composite)
	}
	return parts[0], parts[1], nil
}
