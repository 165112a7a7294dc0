package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bytecodealliance/wasmtime-go/v3"
	"github.com/driftless-hq/driftless-sub001/internal/apierr"
	"github.com/driftless-hq/driftless-sub001/internal/facts"
	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/internal/tmplengine"
	"github.com/driftless-hq/driftless-sub001/pkg/logging"
)

// module bundles a compiled module with the linker that supplies its host
// imports; both are engine-scoped and safe to reuse across per-call stores.
type module struct {
	compiled *wasmtime.Module
	linker   *wasmtime.Linker
}

// Host scans a directory for WASM plugin modules, validates and loads
// them, and registers their contributions into the agent's task registry,
// facts registry, and template engine. Grounded on
// internal/capability/manager.go's load-validate-register lifecycle,
// generalized from YAML capability files to WASM modules per spec.md §4.5.
type Host struct {
	dir    string
	policy Policy
	rt     *runtime

	taskRegistry  *task.Registry
	factsRegistry *facts.Registry
	engine        *tmplengine.Engine

	mu      sync.RWMutex
	modules map[string]*module
	loaded  map[string]*loaded
}

// New creates a Host rooted at dir, applying policy, and wiring contributions
// into the given registries. engine may be nil if template filter/function
// contributions are not needed (e.g. in a facts-only process).
func New(dir string, policy Policy, taskRegistry *task.Registry, factsRegistry *facts.Registry, engine *tmplengine.Engine) *Host {
	return &Host{
		dir:           dir,
		policy:        policy,
		rt:            newRuntime(policy),
		taskRegistry:  taskRegistry,
		factsRegistry: factsRegistry,
		engine:        engine,
		modules:       make(map[string]*module),
		loaded:        make(map[string]*loaded),
	}
}

// Close stops the background epoch ticker. Call once at process shutdown.
func (h *Host) Close() {
	h.rt.Close()
}

// Scan returns the plugin names discovered under the host's directory (the
// basename of every *.wasm file, without extension), sorted by
// filepath.Glob's natural ordering. It does not load or validate anything.
func (h *Host) Scan() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(h.dir, "*.wasm"))
	if err != nil {
		return nil, apierr.Validation("plugin.scan", h.dir, err.Error())
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".wasm"))
	}
	return names, nil
}

// LoadAll scans the directory and loads every discovered plugin, returning
// one error per plugin that failed validation or instantiation; a failure
// in one plugin never prevents the others from loading (spec.md §4.5).
func (h *Host) LoadAll(ctx context.Context) map[string]error {
	names, err := h.Scan()
	if err != nil {
		return map[string]error{"*": err}
	}
	errs := map[string]error{}
	for _, name := range names {
		if err := h.Load(ctx, name); err != nil {
			errs[name] = err
		}
	}
	return errs
}

// Load validates and loads the plugin named name (without its .wasm
// extension) from the host's directory, registering its contributions.
// Loading an already-loaded plugin re-validates and replaces it.
func (h *Host) Load(ctx context.Context, name string) error {
	path := filepath.Join(h.dir, name+".wasm")
	if _, err := os.Stat(path); err != nil {
		return apierr.Validation("plugin", name, "plugin file not found: "+err.Error())
	}

	result, err := validateFile(h.rt.engine, path, h.policy)
	if err != nil {
		return err
	}
	if !result.OK() {
		logging.Audit(logging.AuditEvent{
			Action:  "plugin_load",
			Outcome: "failure",
			Target:  name,
			Details: strings.Join(result.Errors, "; "),
		})
		return apierr.Security("plugin", name, "validation failed: "+strings.Join(result.Errors, "; "))
	}
	for _, w := range result.Warnings {
		logging.Warn("PluginHost", "plugin %s: %s", name, w)
	}

	linker, err := linkHostImports(h.rt.engine, name)
	if err != nil {
		return apierr.Sandbox("plugin", name, "failed to build host imports", err)
	}

	exportSet := make(map[string]bool, len(result.Exports))
	for _, e := range result.Exports {
		exportSet[e] = true
	}

	mod := &module{compiled: result.Module, linker: linker}
	l := &loaded{name: name, path: path, exports: exportSet, warnings: result.Warnings}

	b, _, _, err := h.instantiate(mod, name)
	if err != nil {
		return err
	}
	if err := h.enumerate(l, b); err != nil {
		return err
	}

	h.mu.Lock()
	h.modules[name] = mod
	h.loaded[name] = l
	h.mu.Unlock()

	h.registerContributions(l)
	logging.Audit(logging.AuditEvent{
		Action:  "plugin_load",
		Outcome: "success",
		Target:  name,
		Details: fmt.Sprintf("tasks=%d collectors=%d extensions=%d", len(l.tasks), len(l.collectors), len(l.extensions)),
	})
	return nil
}

// LoadedSummary describes one plugin's contribution counts, for the
// `plugin list` CLI command.
type LoadedSummary struct {
	Name       string
	Tasks      int
	Collectors int
	Extensions int
}

// LoadedPlugins returns a summary of every currently loaded plugin, sorted
// by name.
func (h *Host) LoadedPlugins() []LoadedSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.loaded))
	for name := range h.loaded {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]LoadedSummary, 0, len(names))
	for _, name := range names {
		l := h.loaded[name]
		out = append(out, LoadedSummary{
			Name:       l.name,
			Tasks:      len(l.tasks),
			Collectors: len(l.collectors),
			Extensions: len(l.extensions),
		})
	}
	return out
}

// instantiate creates a fresh Store and Instance for mod and wraps them in
// a bridge. Every plugin call gets its own Store so fuel/epoch budgets and
// any prior call's memory growth never leak into the next call.
func (h *Host) instantiate(mod *module, name string) (*bridge, *wasmtime.Instance, *wasmtime.Store, error) {
	store, err := h.rt.newStore()
	if err != nil {
		return nil, nil, nil, apierr.Sandbox("plugin", name, "failed to create store", err)
	}
	instance, err := mod.linker.Instantiate(store, mod.compiled)
	if err != nil {
		return nil, nil, nil, apierr.Sandbox("plugin", name, "instantiation failed", err)
	}
	b, err := newBridge(name, instance, store)
	if err != nil {
		return nil, nil, nil, err
	}
	return b, instance, store, nil
}

func (h *Host) getModule(name string) (*module, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	mod, ok := h.modules[name]
	if !ok {
		return nil, apierr.Validation("plugin", name, "plugin not loaded")
	}
	return mod, nil
}

// ExecuteTask invokes pluginName's execute_task(name, cfg_json) export for
// the task kind taskName with attrs as the config JSON, per spec.md §4.5/§6.
func (h *Host) ExecuteTask(ctx context.Context, pluginName, taskName string, attrs map[string]interface{}) (task.Result, error) {
	mod, err := h.getModule(pluginName)
	if err != nil {
		return task.Result{}, err
	}
	b, _, _, err := h.instantiate(mod, pluginName)
	if err != nil {
		return task.Result{}, err
	}
	cfgJSON, err := json.Marshal(attrs)
	if err != nil {
		return task.Result{}, apierr.Render("plugin."+pluginName, taskName, err)
	}
	var out struct {
		Changed bool                   `json:"changed"`
		Data    map[string]interface{} `json:"data"`
		Error   string                 `json:"error"`
	}
	if err := b.callMulti("execute_task", []string{taskName, string(cfgJSON)}, &out); err != nil {
		return task.Result{}, err
	}
	if out.Error != "" {
		return task.Result{}, apierr.Dispatch("plugin."+pluginName, taskName, errors.New(out.Error))
	}
	return task.Result{Changed: out.Changed, Data: out.Data}, nil
}

// CollectFacts invokes pluginName's execute_facts_collector(name, cfg_json)
// export for the collector collectorName, returning the raw JSON result
// bytes (satisfying internal/facts/collectors.PluginInvoker).
func (h *Host) CollectFacts(ctx context.Context, pluginName, collectorName string, configJSON []byte) ([]byte, error) {
	mod, err := h.getModule(pluginName)
	if err != nil {
		return nil, err
	}
	b, _, _, err := h.instantiate(mod, pluginName)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := b.callMulti("execute_facts_collector", []string{collectorName, string(configJSON)}, &out); err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// RenderFilter invokes pluginName's
// execute_template_filter(name, cfg_json, value_json, args_json) export.
func (h *Host) RenderFilter(ctx context.Context, pluginName, filterName string, value interface{}, args []interface{}) (interface{}, error) {
	mod, err := h.getModule(pluginName)
	if err != nil {
		return nil, err
	}
	b, _, _, err := h.instantiate(mod, pluginName)
	if err != nil {
		return nil, err
	}
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return nil, apierr.Render("plugin."+pluginName, filterName, err)
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, apierr.Render("plugin."+pluginName, filterName, err)
	}
	var out interface{}
	if err := b.callMulti("execute_template_filter", []string{filterName, "{}", string(valueJSON), string(argsJSON)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RenderFunction invokes pluginName's
// execute_template_function(name, cfg_json, args_json) export.
func (h *Host) RenderFunction(ctx context.Context, pluginName, fnName string, args []interface{}) (interface{}, error) {
	mod, err := h.getModule(pluginName)
	if err != nil {
		return nil, err
	}
	b, _, _, err := h.instantiate(mod, pluginName)
	if err != nil {
		return nil, err
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, apierr.Render("plugin."+pluginName, fnName, err)
	}
	var out interface{}
	if err := b.callMulti("execute_template_function", []string{fnName, "{}", string(argsJSON)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
