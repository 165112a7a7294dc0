package plugin

import (
	"context"
	"encoding/json"

	"github.com/driftless-hq/driftless-sub001/internal/apierr"
	"github.com/driftless-hq/driftless-sub001/internal/facts"
	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/pkg/logging"
)

// TaskDefinition describes one task kind a plugin contributes, as returned
// by its get_task_definitions export (spec.md §6: "Task definitions
// contain name, type, config_schema").
type TaskDefinition struct {
	Name         string                 `json:"name"`
	Type         string                 `json:"type"`
	ConfigSchema map[string]interface{} `json:"config_schema"`
}

// CollectorDefinition describes one facts collector kind a plugin
// contributes, as returned by its get_facts_collectors export.
type CollectorDefinition struct {
	Name         string                 `json:"name"`
	ConfigSchema map[string]interface{} `json:"config_schema"`
}

// TemplateExtensionDefinition describes one template filter or function a
// plugin contributes, as returned by its get_template_extensions export
// (spec.md §6: "name, type ∈ {filter,function}, description, category,
// arguments as [[name, doc], ...]").
type TemplateExtensionDefinition struct {
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Arguments   [][]string `json:"arguments"`
}

// logContribution is the minimal shape a get_log_sources/parsers/filters/
// outputs entry takes. The log-ingestion pipeline is out of scope (spec.md
// §1); these are parsed only so validation's required-export check and
// Host.enumerate can account for them, not to be dispatched anywhere.
type logContribution struct {
	Name string `json:"name"`
}

// loaded holds one successfully validated plugin along with the
// contributions parsed from its enumeration exports. Its compiled module is
// kept in Host.modules so a fresh instance/store pair can be created per
// call (spec.md §4.5 isolates each plugin invocation).
type loaded struct {
	name       string
	path       string
	exports    map[string]bool
	warnings   []string
	tasks      []TaskDefinition
	collectors []CollectorDefinition
	extensions []TemplateExtensionDefinition
	logSources []logContribution
	logParsers []logContribution
	logFilters []logContribution
	logOutputs []logContribution
}

// enumerate calls every required enumeration export and records what it
// returns. Validation already guaranteed all seven exports exist, so every
// call here is expected to succeed.
func (h *Host) enumerate(l *loaded, b *bridge) error {
	calls := []struct {
		export string
		out    interface{}
	}{
		{"get_task_definitions", &l.tasks},
		{"get_facts_collectors", &l.collectors},
		{"get_template_extensions", &l.extensions},
		{"get_log_sources", &l.logSources},
		{"get_log_parsers", &l.logParsers},
		{"get_log_filters", &l.logFilters},
		{"get_log_outputs", &l.logOutputs},
	}
	for _, c := range calls {
		if err := b.callJSON(c.export, nil, c.out); err != nil {
			return err
		}
	}
	return nil
}

// registerContributions wires a loaded plugin's enumerated contributions
// into the host's task registry, facts registry, and template engine, each
// under the composite key "<plugin_name>.<contribution_name>" per spec.md
// §4.5. Log-pipeline contributions are enumerated but never registered
// anywhere (spec.md §1 excludes the log-ingestion pipeline).
func (h *Host) registerContributions(l *loaded) {
	for _, t := range l.tasks {
		kind := l.name + "." + t.Name
		pluginName, taskName := l.name, t.Name
		h.taskRegistry.Register(kind, func(ctx context.Context, tk *task.Task, ec *task.ExecContext) (task.Result, error) {
			return h.ExecuteTask(ctx, pluginName, taskName, tk.Attrs)
		}, nil)
		logging.Info("PluginHost", "registered task kind %s", kind)
	}
	for _, c := range l.collectors {
		kind := l.name + "." + c.Name
		pluginName, collectorName := l.name, c.Name
		h.factsRegistry.Register(kind, func(ctx context.Context, cfg facts.CollectorConfig) (map[string]interface{}, error) {
			cfgJSON, err := marshalOptions(cfg.Options)
			if err != nil {
				return nil, err
			}
			result, err := h.CollectFacts(ctx, pluginName, collectorName, cfgJSON)
			if err != nil {
				return nil, err
			}
			return unmarshalFacts(result)
		})
		logging.Info("PluginHost", "registered facts collector %s", kind)
	}
	if h.engine != nil {
		for _, ext := range l.extensions {
			name := l.name + "." + ext.Name
			pluginName, extName := l.name, ext.Name
			switch ext.Type {
			case "filter":
				h.engine.RegisterFunc(name, func(value interface{}, args ...interface{}) (interface{}, error) {
					return h.RenderFilter(context.Background(), pluginName, extName, value, args)
				})
			case "function":
				h.engine.RegisterFunc(name, func(args ...interface{}) (interface{}, error) {
					return h.RenderFunction(context.Background(), pluginName, extName, args)
				})
			default:
				logging.Warn("PluginHost", "plugin %s: template extension %s has unknown type %q, skipping", l.name, ext.Name, ext.Type)
				continue
			}
			logging.Info("PluginHost", "registered template %s %s", ext.Type, name)
		}
	}
	total := len(l.tasks) + len(l.collectors) + len(l.extensions)
	if total == 0 {
		logging.Warn("PluginHost", "plugin %s loaded but contributes no tasks, collectors, or template extensions", l.name)
	}
}

func marshalOptions(opts map[string]interface{}) ([]byte, error) {
	data, err := json.Marshal(opts)
	if err != nil {
		return nil, apierr.Render("plugin", "facts", err)
	}
	return data, nil
}

func unmarshalFacts(data []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, apierr.Render("plugin", "facts", err)
	}
	return out, nil
}
