package facts

import (
	"context"
	"sync"
	"time"

	"github.com/driftless-hq/driftless-sub001/pkg/logging"
	"golang.org/x/sync/errgroup"
)

const defaultPollIntervalSeconds = 60

// Exporter pushes a facts snapshot somewhere. Each exporter's Export is
// isolated: a failure in one does not prevent others from running, and
// exporters are invoked in parallel (spec.md §4.4 "Exporters").
type Exporter interface {
	Export(ctx context.Context, snapshot map[string]interface{}) error
}

// Orchestrator runs the facts collection loop: every tick, collectors
// whose individual poll interval has elapsed are invoked sequentially in
// declaration order, then (if any ran) the snapshot is exported in
// parallel across every configured exporter.
type Orchestrator struct {
	config    Config
	registry  *Registry
	exporters []Exporter

	mu       sync.RWMutex
	snapshot map[string]interface{}
	lastRun  map[string]time.Time
}

// New constructs an Orchestrator over config, dispatching collectors
// through registry and fanning collected snapshots out to exporters.
func New(config Config, registry *Registry, exporters []Exporter) *Orchestrator {
	return &Orchestrator{
		config:    config,
		registry:  registry,
		exporters: exporters,
		snapshot:  make(map[string]interface{}),
		lastRun:   make(map[string]time.Time),
	}
}

// Snapshot returns a copy of the most recently collected facts.
func (o *Orchestrator) Snapshot() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]interface{}, len(o.snapshot))
	for k, v := range o.snapshot {
		out[k] = v
	}
	return out
}

// Run enters the collection loop until ctx is cancelled (spec.md §4.4
// "run() enters the collection loop until cancelled").
func (o *Orchestrator) Run(ctx context.Context) error {
	tick := o.tickInterval()
	logging.Info("Orchestrator", "starting facts orchestrator: %d collectors, %d exporters, tick=%s", len(o.config.Collectors), len(o.exporters), tick)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			o.collectAndExport(ctx, now)
		}
	}
}

// tickInterval computes gcd(interval_i) across enabled collectors,
// defaulting to 60s when there are none (spec.md §4.4 "Scheduling").
func (o *Orchestrator) tickInterval() time.Duration {
	var intervals []int
	for _, c := range o.config.Collectors {
		if !c.Enabled {
			continue
		}
		intervals = append(intervals, c.EffectivePollInterval(o.config.Global.PollInterval))
	}
	if len(intervals) == 0 {
		return defaultPollIntervalSeconds * time.Second
	}

	g := intervals[0]
	for _, n := range intervals[1:] {
		g = gcd(g, n)
	}
	if g <= 0 {
		g = defaultPollIntervalSeconds
	}
	return time.Duration(g) * time.Second
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// collectAndExport runs every collector whose interval has elapsed since
// its last run, then exports the resulting snapshot if anything ran.
func (o *Orchestrator) collectAndExport(ctx context.Context, now time.Time) {
	if !o.config.Global.Enabled {
		return
	}

	ran := false
	snapshot := make(map[string]interface{})

	for _, c := range o.config.Collectors {
		if !c.Enabled {
			continue
		}
		interval := time.Duration(c.EffectivePollInterval(o.config.Global.PollInterval)) * time.Second
		if last, ok := o.lastRun[c.Name]; ok && now.Sub(last) < interval {
			snapshot[c.Name] = o.cachedFact(c.Name)
			continue
		}

		facts, err := o.registry.Collect(ctx, c)
		if err != nil {
			logging.Warn("Orchestrator", "collector %s (%s) failed: %v", c.Name, c.Type, err)
			continue
		}
		o.lastRun[c.Name] = now
		snapshot[c.Name] = facts
		ran = true
	}

	if !ran {
		return
	}

	o.mu.Lock()
	o.snapshot = snapshot
	o.mu.Unlock()

	o.export(ctx, snapshot)
}

func (o *Orchestrator) cachedFact(name string) interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshot[name]
}

// export fans snapshot out to every exporter in parallel via errgroup,
// isolating failures per spec.md §4.4.
func (o *Orchestrator) export(ctx context.Context, snapshot map[string]interface{}) {
	g, gctx := errgroup.WithContext(ctx)
	for _, exp := range o.exporters {
		exp := exp
		g.Go(func() error {
			if err := exp.Export(gctx, snapshot); err != nil {
				logging.Warn("Orchestrator", "exporter failed: %v", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
