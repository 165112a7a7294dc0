// Package collectors implements the built-in facts collector kinds spec.md
// §4.3 enumerates: system, cpu, memory, disk, network, process (via
// gopsutil, grounded on the go.mod dependency surface shared across the
// retrieved example pack), command (custom-shell), and plugin (delegating
// to the plugin host).
package collectors

import (
	"context"
	"fmt"

	"github.com/driftless-hq/driftless-sub001/internal/facts"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
	gopsnet "github.com/shirou/gopsutil/net"
	"github.com/shirou/gopsutil/process"
)

// RegisterAll wires system, cpu, memory, disk, network, and process
// against reg.
func RegisterAll(reg *facts.Registry) {
	reg.Register("system", SystemCollector)
	reg.Register("cpu", CPUCollector)
	reg.Register("memory", MemoryCollector)
	reg.Register("disk", DiskCollector)
	reg.Register("network", NetworkCollector)
	reg.Register("process", ProcessCollector)
}

// SystemCollector reports host identity and uptime. gopsutil's pinned
// v2.18.12 release predates its context-aware entry points, so collectors
// here call the plain functions rather than the *WithContext variants.
func SystemCollector(ctx context.Context, cfg facts.CollectorConfig) (map[string]interface{}, error) {
	info, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("collecting system facts: %w", err)
	}
	return map[string]interface{}{
		"hostname":         info.Hostname,
		"os":               info.OS,
		"platform":         info.Platform,
		"platform_version": info.PlatformVersion,
		"kernel_version":   info.KernelVersion,
		"uptime_seconds":   info.Uptime,
	}, nil
}

// CPUCollector reports per-collector-configured CPU usage; `per_core: true`
// in Options returns per-core percentages instead of the aggregate.
func CPUCollector(ctx context.Context, cfg facts.CollectorConfig) (map[string]interface{}, error) {
	perCore, _ := cfg.Options["per_core"].(bool)
	percents, err := cpu.Percent(0, perCore)
	if err != nil {
		return nil, fmt.Errorf("collecting cpu facts: %w", err)
	}

	out := map[string]interface{}{}
	if perCore {
		out["per_core_percent"] = percents
	} else if len(percents) > 0 {
		out["usage_percent"] = percents[0]
	}

	counts, err := cpu.Counts(true)
	if err == nil {
		out["logical_cores"] = counts
	}
	return out, nil
}

// MemoryCollector reports virtual memory totals and usage.
func MemoryCollector(ctx context.Context, cfg facts.CollectorConfig) (map[string]interface{}, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("collecting memory facts: %w", err)
	}
	return map[string]interface{}{
		"total":        vm.Total,
		"available":    vm.Available,
		"used":         vm.Used,
		"used_percent": vm.UsedPercent,
	}, nil
}

// DiskCollector reports usage for the path named in Options["path"],
// defaulting to "/".
func DiskCollector(ctx context.Context, cfg facts.CollectorConfig) (map[string]interface{}, error) {
	path, _ := cfg.Options["path"].(string)
	if path == "" {
		path = "/"
	}
	usage, err := disk.Usage(path)
	if err != nil {
		return nil, fmt.Errorf("collecting disk facts for %s: %w", path, err)
	}
	return map[string]interface{}{
		"path":         path,
		"total":        usage.Total,
		"free":         usage.Free,
		"used":         usage.Used,
		"used_percent": usage.UsedPercent,
	}, nil
}

// NetworkCollector reports per-interface byte counters.
func NetworkCollector(ctx context.Context, cfg facts.CollectorConfig) (map[string]interface{}, error) {
	counters, err := gopsnet.IOCounters(true)
	if err != nil {
		return nil, fmt.Errorf("collecting network facts: %w", err)
	}
	interfaces := make(map[string]interface{}, len(counters))
	for _, c := range counters {
		interfaces[c.Name] = map[string]interface{}{
			"bytes_sent": c.BytesSent,
			"bytes_recv": c.BytesRecv,
		}
	}
	return map[string]interface{}{"interfaces": interfaces}, nil
}

// ProcessCollector reports the current process count.
func ProcessCollector(ctx context.Context, cfg facts.CollectorConfig) (map[string]interface{}, error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, fmt.Errorf("collecting process facts: %w", err)
	}
	return map[string]interface{}{"count": len(pids)}, nil
}
