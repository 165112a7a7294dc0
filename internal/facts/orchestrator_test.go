package facts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	calls []map[string]interface{}
}

func (f *fakeExporter) Export(ctx context.Context, snapshot map[string]interface{}) error {
	f.calls = append(f.calls, snapshot)
	return nil
}

type erroringExporter struct{ calls int }

func (e *erroringExporter) Export(ctx context.Context, snapshot map[string]interface{}) error {
	e.calls++
	return assertErr("export failed")
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

func newCountingCollector(value int) Collector {
	return func(ctx context.Context, cfg CollectorConfig) (map[string]interface{}, error) {
		return map[string]interface{}{"n": value}, nil
	}
}

func TestTickInterval_GCDOfEnabledCollectors(t *testing.T) {
	o := New(Config{Collectors: []CollectorConfig{
		{Name: "a", Enabled: true, PollInterval: 60},
		{Name: "b", Enabled: true, PollInterval: 30},
		{Name: "c", Enabled: true, PollInterval: 90},
	}}, NewRegistry(), nil)

	assert.Equal(t, 30*time.Second, o.tickInterval())
}

func TestTickInterval_DefaultsWhenNoCollectors(t *testing.T) {
	o := New(Config{}, NewRegistry(), nil)
	assert.Equal(t, defaultPollIntervalSeconds*time.Second, o.tickInterval())
}

func TestCollectAndExport_SkipsDisabledGlobal(t *testing.T) {
	reg := NewRegistry()
	reg.Register("cpu", newCountingCollector(1))
	exp := &fakeExporter{}
	o := New(Config{
		Global:     GlobalSettings{Enabled: false},
		Collectors: []CollectorConfig{{Type: "cpu", Name: "cpu1", Enabled: true, PollInterval: 10}},
	}, reg, []Exporter{exp})

	o.collectAndExport(context.Background(), time.Now())
	assert.Empty(t, exp.calls)
}

func TestCollectAndExport_RunsAndExportsOnFirstTick(t *testing.T) {
	reg := NewRegistry()
	reg.Register("cpu", newCountingCollector(42))
	exp := &fakeExporter{}
	o := New(Config{
		Global:     GlobalSettings{Enabled: true},
		Collectors: []CollectorConfig{{Type: "cpu", Name: "cpu1", Enabled: true, PollInterval: 10}},
	}, reg, []Exporter{exp})

	o.collectAndExport(context.Background(), time.Now())
	require.Len(t, exp.calls, 1)
	assert.Equal(t, map[string]interface{}{"n": 42}, exp.calls[0]["cpu1"])
}

func TestCollectAndExport_RespectsPerCollectorInterval(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	reg.Register("cpu", func(ctx context.Context, cfg CollectorConfig) (map[string]interface{}, error) {
		calls++
		return map[string]interface{}{"n": calls}, nil
	})
	o := New(Config{
		Global:     GlobalSettings{Enabled: true},
		Collectors: []CollectorConfig{{Type: "cpu", Name: "cpu1", Enabled: true, PollInterval: 60}},
	}, reg, nil)

	start := time.Now()
	o.collectAndExport(context.Background(), start)
	o.collectAndExport(context.Background(), start.Add(10*time.Second))

	assert.Equal(t, 1, calls, "collector with a 60s interval must not rerun after only 10s")
}

// S5: three collectors at 30/60/90s intervals tick on their GCD (30s) and
// fire 6/3/2 times respectively over 180 simulated seconds.
func TestScenario_MultiRateCollectorsFireOnTheirOwnCadence(t *testing.T) {
	reg := NewRegistry()
	counts := map[string]int{"fast": 0, "medium": 0, "slow": 0}
	for _, name := range []string{"fast", "medium", "slow"} {
		name := name
		reg.Register(name, func(ctx context.Context, cfg CollectorConfig) (map[string]interface{}, error) {
			counts[name]++
			return map[string]interface{}{"n": counts[name]}, nil
		})
	}

	o := New(Config{
		Global: GlobalSettings{Enabled: true},
		Collectors: []CollectorConfig{
			{Type: "fast", Name: "fast", Enabled: true, PollInterval: 30},
			{Type: "medium", Name: "medium", Enabled: true, PollInterval: 60},
			{Type: "slow", Name: "slow", Enabled: true, PollInterval: 90},
		},
	}, reg, nil)

	tick := o.tickInterval()
	require.Equal(t, 30*time.Second, tick, "GCD of 30/60/90s must be 30s")

	// A time.Ticker's first tick fires after the interval elapses, not at
	// t=0, so simulate ticks at t=30s..180s (6 ticks) to match Run's loop.
	start := time.Now()
	for elapsed := tick; elapsed <= 180*time.Second; elapsed += tick {
		o.collectAndExport(context.Background(), start.Add(elapsed))
	}

	assert.Equal(t, 6, counts["fast"], "30s collector should fire every tick across 180s")
	assert.Equal(t, 3, counts["medium"], "60s collector should fire every other tick across 180s")
	assert.Equal(t, 2, counts["slow"], "90s collector should fire every third tick across 180s")
}

func TestCollectAndExport_OneExporterFailureDoesNotBlockOthers(t *testing.T) {
	reg := NewRegistry()
	reg.Register("cpu", newCountingCollector(1))
	failing := &erroringExporter{}
	ok := &fakeExporter{}
	o := New(Config{
		Global:     GlobalSettings{Enabled: true},
		Collectors: []CollectorConfig{{Type: "cpu", Name: "cpu1", Enabled: true, PollInterval: 10}},
	}, reg, []Exporter{failing, ok})

	o.collectAndExport(context.Background(), time.Now())
	assert.Equal(t, 1, failing.calls)
	assert.Len(t, ok.calls, 1)
}
