package plugin

import (
	"time"

	"github.com/bytecodealliance/wasmtime-go/v3"
)

// runtime owns the wasmtime Engine shared by every loaded plugin and the
// background epoch-ticker that enforces MaxEpochTicks wall-clock cutoffs.
// Grounded on wasmtime-go/v3's fuel-consumption and epoch-interruption
// config flags — the pack's only dependency that models CPU-time sandboxing
// as first-class API, matching spec.md §4.5's "terminate a plugin call that
// exceeds its fuel or epoch budget" requirement.
type runtime struct {
	engine *wasmtime.Engine
	policy Policy
	stopCh chan struct{}
}

func newRuntime(policy Policy) *runtime {
	cfg := wasmtime.NewConfig()
	cfg.SetConsumeFuel(true)
	cfg.SetEpochInterruption(true)
	if policy.MaxStackBytes > 0 {
		cfg.SetMaxWasmStack(policy.MaxStackBytes)
	}
	engine := wasmtime.NewEngineWithConfig(cfg)

	r := &runtime{engine: engine, policy: policy, stopCh: make(chan struct{})}
	r.startEpochTicker()
	return r
}

// startEpochTicker advances the engine's epoch counter every EpochPeriod so
// that a store's SetEpochDeadline cutoff is actually reachable in real time.
func (r *runtime) startEpochTicker() {
	period := r.policy.EpochPeriod
	if period <= 0 {
		period = 50 * time.Millisecond
	}
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-r.stopCh:
				return
			case <-ticker.C:
				r.engine.IncrementEpoch()
			}
		}
	}()
}

func (r *runtime) Close() {
	close(r.stopCh)
}

// newStore creates a fresh Store scoped to a single plugin call, pre-loaded
// with the fuel and epoch-tick budgets from policy. Stores are cheap and
// single-use here: spec.md §4.5 wants each call isolated, not a pooled
// instance shared across calls with leftover fuel.
func (r *runtime) newStore() (*wasmtime.Store, error) {
	store := wasmtime.NewStore(r.engine)
	if r.policy.FuelPerCall > 0 {
		if err := store.AddFuel(r.policy.FuelPerCall); err != nil {
			return nil, err
		}
	}
	ticks := r.policy.MaxEpochTicks
	if ticks == 0 {
		ticks = 20
	}
	store.SetEpochDeadline(ticks)

	if r.policy.MaxMemoryBytes > 0 {
		limiter := wasmtime.NewStoreLimitsBuilder().
			MemorySize(r.policy.MaxMemoryBytes).
			Build()
		store.Limiter(limiter)
	}
	return store, nil
}
