// Package agent wires the task engine, facts orchestrator, and plugin host
// together into the two independent loops spec.md §2's control flow names:
// "the agent then drives two independent loops: (a) the apply loop
// periodically loads configuration, validates every task, and hands the
// list to the task executor; (b) the facts loop ticks on the
// greatest-common-divisor of collector intervals and invokes those due."
// It is the single top-level owner spec.md §9's "Plugin host lifetime &
// cyclic references" note requires: the plugin host's registered functions
// close over the host itself, so whatever owns the registries must also
// own the host and control teardown order.
package agent

import (
	"context"
	"path/filepath"
	"time"

	"github.com/driftless-hq/driftless-sub001/internal/config"
	"github.com/driftless-hq/driftless-sub001/internal/facts"
	"github.com/driftless-hq/driftless-sub001/internal/facts/collectors"
	"github.com/driftless-hq/driftless-sub001/internal/plugin"
	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/internal/task/kinds"
	"github.com/driftless-hq/driftless-sub001/internal/task/kinds/runner"
	"github.com/driftless-hq/driftless-sub001/internal/tmplengine"
	"github.com/driftless-hq/driftless-sub001/internal/tmplengine/filters"
	"github.com/driftless-hq/driftless-sub001/internal/varctx"
	"github.com/driftless-hq/driftless-sub001/pkg/logging"
	"golang.org/x/sync/errgroup"
)

// Agent bundles the registries, template engine, optional plugin host, and
// optional facts orchestrator that one process instance owns.
type Agent struct {
	TaskRegistry  *task.Registry
	FactsRegistry *facts.Registry
	Engine        *tmplengine.Engine
	PluginHost    *plugin.Host
	Orchestrator  *facts.Orchestrator

	// ApplyConfigPath is the apply configuration file to (re)load on every
	// apply run. Empty disables the apply loop entirely (a facts-only
	// process).
	ApplyConfigPath string

	// ApplyInterval is how often the apply loop reloads and re-applies its
	// configuration after the first run. Zero means "run once" (spec.md §2's
	// AgentConfig.ApplyInterval "zero means run once and exit").
	ApplyInterval time.Duration

	DryRun bool
}

// New wires a fresh Agent from agentCfg/factsCfg: it constructs the task and
// facts registries and populates them with every built-in kind, builds the
// template engine seeded with the domain filter packages, and — when a
// plugin directory is configured — a plugin host sharing those same
// registries and engine so plugin contributions land in the same place
// built-ins do (spec.md §4.5 "Registration"). The facts orchestrator is
// constructed only when factsCfg.Global.Enabled is true; a disabled or
// absent facts configuration yields a nil Orchestrator and an agent that
// only ever runs the apply loop.
func New(agentCfg config.AgentConfig, factsCfg facts.Config, applyConfigPath string, dryRun bool) (*Agent, error) {
	engine := tmplengine.New(filters.All())

	taskRegistry := task.NewRegistry()
	kinds.RegisterAll(taskRegistry, runner.Exec{})
	task.RegisterFlowControlKinds(taskRegistry)

	factsRegistry := facts.NewRegistry()
	collectors.RegisterBuiltins(factsRegistry)

	var host *plugin.Host
	if agentCfg.Plugin.Dir != "" {
		policy := plugin.NewPolicy(agentCfg.Plugin)
		host = plugin.New(agentCfg.Plugin.Dir, policy, taskRegistry, factsRegistry, engine)
		factsRegistry.Register("plugin", collectors.PluginCollector(host))
	}

	var orchestrator *facts.Orchestrator
	if factsCfg.Global.Enabled {
		exporters, err := buildExporters(factsCfg.Export)
		if err != nil {
			return nil, err
		}
		orchestrator = facts.New(factsCfg, factsRegistry, exporters)
	}

	return &Agent{
		TaskRegistry:    taskRegistry,
		FactsRegistry:   factsRegistry,
		Engine:          engine,
		PluginHost:      host,
		Orchestrator:    orchestrator,
		ApplyConfigPath: applyConfigPath,
		ApplyInterval:   agentCfg.ApplyInterval,
		DryRun:          dryRun,
	}, nil
}

// Close releases resources owned by the agent — presently just the plugin
// host's epoch-ticker goroutine. Safe to call on an Agent with no host.
func (a *Agent) Close() {
	if a.PluginHost != nil {
		a.PluginHost.Close()
	}
}

// Run eagerly loads plugin contributions (if a host is configured), then
// drives the apply loop and the facts loop as independent goroutines under
// an errgroup (spec.md §5 "The apply loop and the facts loop are
// independent tasks"). It returns the first error either loop surfaces. A
// one-shot apply run (ApplyInterval == 0) that completes without error does
// not cancel a sibling facts loop still ticking — the two are genuinely
// independent, not a barrier pair.
func (a *Agent) Run(ctx context.Context) error {
	if a.PluginHost != nil {
		for name, err := range a.PluginHost.LoadAll(ctx) {
			logging.Warn("Agent", "plugin %s failed to load: %v", name, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if a.ApplyConfigPath != "" {
		g.Go(func() error { return a.runApplyLoop(gctx) })
	}
	if a.Orchestrator != nil {
		g.Go(func() error { return a.Orchestrator.Run(gctx) })
	}
	return g.Wait()
}

// ApplyOnce loads the apply configuration fresh and runs it through the
// task executor exactly once. Used directly by a one-shot `apply` CLI
// invocation, and by the apply loop's own first run and subsequent ticks.
func (a *Agent) ApplyOnce(ctx context.Context) ([]task.StepResult, error) {
	cfg, err := config.LoadApplyConfig(a.ApplyConfigPath)
	if err != nil {
		return nil, err
	}
	ec := &task.ExecContext{
		Vars:     varctx.New(cfg.Vars),
		Engine:   a.Engine,
		DryRun:   a.DryRun,
		BaseDir:  filepath.Dir(a.ApplyConfigPath),
		Registry: a.TaskRegistry,
	}
	return task.Run(ctx, cfg.Tasks, ec)
}

// runApplyLoop runs the apply config once, then — if ApplyInterval is set —
// reloads and re-applies it on every tick until ctx is cancelled. The first
// run's failure aborts the loop (there is no prior good state to fall back
// on); a failure on a later tick is logged and the loop continues, so a
// transient bad reload does not take down an otherwise healthy daemon.
func (a *Agent) runApplyLoop(ctx context.Context) error {
	if _, err := a.ApplyOnce(ctx); err != nil {
		return err
	}
	if a.ApplyInterval <= 0 {
		return nil
	}

	ticker := time.NewTicker(a.ApplyInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := a.ApplyOnce(ctx); err != nil {
				logging.Warn("Agent", "apply run failed: %v", err)
			}
		}
	}
}
