package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// File serializes the full snapshot to a configured path in a configured
// format: Prometheus text exposition, JSON, or InfluxDB line protocol
// (spec.md §4.4).
type File struct {
	Path   string
	Format string // "prometheus" | "json" | "influx"
}

func (f *File) Export(ctx context.Context, snapshot map[string]interface{}) error {
	var body string
	var err error

	switch f.Format {
	case "influx":
		body = renderInfluxLines(snapshot)
	case "json":
		body, err = renderJSON(snapshot)
	default:
		body = renderPrometheusText(snapshot)
	}
	if err != nil {
		return fmt.Errorf("rendering facts snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(f.Path, []byte(body), 0644); err != nil {
		return fmt.Errorf("writing facts export to %s: %w", f.Path, err)
	}
	return nil
}

func renderJSON(snapshot map[string]interface{}) (string, error) {
	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func renderPrometheusText(snapshot map[string]interface{}) string {
	var b strings.Builder
	for _, collectorName := range sortedKeys(snapshot) {
		fields, ok := snapshot[collectorName].(map[string]interface{})
		if !ok {
			continue
		}
		for _, key := range sortedKeys(fields) {
			num, ok := toFloat64(fields[key])
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "driftless_%s_%s %v\n", collectorName, key, num)
		}
	}
	return b.String()
}

func renderInfluxLines(snapshot map[string]interface{}) string {
	now := influxTimestamp()
	var b strings.Builder
	for _, collectorName := range sortedKeys(snapshot) {
		fields, ok := snapshot[collectorName].(map[string]interface{})
		if !ok {
			continue
		}
		var pairs []string
		for _, key := range sortedKeys(fields) {
			num, ok := toFloat64(fields[key])
			if !ok {
				continue
			}
			pairs = append(pairs, fmt.Sprintf("%s=%v", key, num))
		}
		if len(pairs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s %s %d\n", collectorName, strings.Join(pairs, ","), now)
	}
	return b.String()
}

// influxTimestamp is a seam over time.Now().UnixNano() so tests can assert
// line-protocol shape without depending on wall-clock output.
var influxTimestamp = func() int64 { return time.Now().UnixNano() }

func sortedKeys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
