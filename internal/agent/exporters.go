package agent

import (
	"github.com/driftless-hq/driftless-sub001/internal/facts"
	"github.com/driftless-hq/driftless-sub001/internal/facts/export"
	"github.com/prometheus/client_golang/prometheus"
)

// localObjectStoreRoot is where the object-store exporter's stdlib-backed
// LocalUploader stages objects, since the retrieved example pack carries no
// object-store SDK to wire a real bucket client against (see DESIGN.md's
// stdlib-justification entry for internal/facts/export/objectstore.go).
const localObjectStoreRoot = "objectstore"

// buildExporters constructs the Exporter set a facts configuration's export
// block names (spec.md §4.4's three exporter kinds), skipping any
// sub-object that is nil or not Enabled. Serving the Prometheus registry
// over HTTP is the metrics HTTP endpoint spec.md §1 explicitly scopes out;
// buildExporters only wires the in-process registry the exporter writes
// gauges into.
func buildExporters(cfg facts.ExportConfig) ([]facts.Exporter, error) {
	var exporters []facts.Exporter

	if cfg.Prometheus != nil && cfg.Prometheus.Enabled {
		registry := prometheus.NewRegistry()
		exporters = append(exporters, export.NewPrometheus(registry))
	}
	if cfg.File != nil && cfg.File.Enabled {
		exporters = append(exporters, &export.File{Path: cfg.File.Path, Format: cfg.File.Format})
	}
	if cfg.ObjectStore != nil && cfg.ObjectStore.Enabled {
		exporters = append(exporters, &export.ObjectStore{
			Bucket:   cfg.ObjectStore.Bucket,
			Prefix:   cfg.ObjectStore.Prefix,
			Uploader: &export.LocalUploader{Root: localObjectStoreRoot},
		})
	}
	return exporters, nil
}
