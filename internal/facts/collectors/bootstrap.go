package collectors

import "github.com/driftless-hq/driftless-sub001/internal/facts"

// RegisterBuiltins wires every collector kind that needs no external
// collaborator: the gopsutil-backed system kinds plus the shell "command"
// kind. The "plugin" kind (PluginCollector) is registered separately by
// whatever owns a *plugin.Host, since collectors must not import plugin.
func RegisterBuiltins(reg *facts.Registry) {
	RegisterAll(reg)
	reg.Register("command", CommandCollector)
}
