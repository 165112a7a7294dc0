// Package export implements the facts exporter kinds spec.md §4.4 names:
// Prometheus, file, and object-store. Grounded on
// original_source/src/facts/orchestrator.rs's PrometheusExporter/
// FileExporter/S3Exporter trio, rewritten against client_golang's registry
// instead of hand-built gauge bookkeeping.
package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/driftless-hq/driftless-sub001/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus converts every numeric scalar `<collector>.<key>` in the
// snapshot into a gauge named `driftless_<collector>_<key>`, registering on
// first sight and setting on each export (spec.md §4.4).
type Prometheus struct {
	registry *prometheus.Registry
	mu       sync.Mutex
	gauges   map[string]prometheus.Gauge
}

// NewPrometheus constructs an exporter backed by registry.
func NewPrometheus(registry *prometheus.Registry) *Prometheus {
	return &Prometheus{registry: registry, gauges: make(map[string]prometheus.Gauge)}
}

func (p *Prometheus) Export(ctx context.Context, snapshot map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for collectorName, raw := range snapshot {
		fields, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		for key, value := range fields {
			num, ok := toFloat64(value)
			if !ok {
				continue
			}
			metricName := fmt.Sprintf("driftless_%s_%s", collectorName, key)
			gauge, exists := p.gauges[metricName]
			if !exists {
				gauge = prometheus.NewGauge(prometheus.GaugeOpts{
					Name: metricName,
					Help: fmt.Sprintf("%s %s", collectorName, key),
				})
				if err := p.registry.Register(gauge); err != nil {
					logging.Warn("Export.Prometheus", "registering metric %s: %v", metricName, err)
					continue
				}
				p.gauges[metricName] = gauge
			}
			gauge.Set(num)
		}
	}
	return nil
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
