// Package facts implements the facts registry and orchestrator (spec.md
// §4.3/§4.4): a multi-rate scheduler that runs collectors at their own
// poll interval and fans the resulting snapshot out to exporters. Grounded
// on original_source/src/facts/orchestrator.rs's GCD-tick scheduling loop,
// expressed through the task package's registry idiom generalized from
// task kinds to fact collector kinds.
package facts

// GlobalSettings holds the facts-wide master switch, default poll
// interval, and global label set (spec.md §3 "Facts configuration").
// Labels are parsed but not applied: no collector output or exporter
// reads them.
type GlobalSettings struct {
	Enabled      bool              `yaml:"enabled"`
	PollInterval int               `yaml:"poll_interval"`
	Labels       map[string]string `yaml:"labels,omitempty"`
}

// CollectorConfig is one entry in the `collectors` list: a discriminated
// kind tag plus the attributes every collector shares and the kind-specific
// options inlined alongside them.
type CollectorConfig struct {
	Type         string                 `yaml:"type"`
	Name         string                 `yaml:"name"`
	Enabled      bool                   `yaml:"enabled"`
	PollInterval int                    `yaml:"poll_interval"`
	Labels       map[string]string      `yaml:"labels,omitempty"`
	Options      map[string]interface{} `yaml:",inline"`
}

// EffectivePollInterval returns c's poll interval, falling back to
// fallback when unset.
func (c CollectorConfig) EffectivePollInterval(fallback int) int {
	if c.PollInterval > 0 {
		return c.PollInterval
	}
	return fallback
}

// PrometheusExportConfig configures the Prometheus exporter.
type PrometheusExportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// FileExportConfig configures the file exporter.
type FileExportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Format  string `yaml:"format,omitempty"` // "prometheus" | "json" | "influx"
}

// ObjectStoreExportConfig configures the object-store exporter.
type ObjectStoreExportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix,omitempty"`
}

// ExportConfig is the `export` block: which exporter kinds are active and
// how each is configured.
type ExportConfig struct {
	Prometheus  *PrometheusExportConfig  `yaml:"prometheus,omitempty"`
	File        *FileExportConfig        `yaml:"file,omitempty"`
	ObjectStore *ObjectStoreExportConfig `yaml:"s3,omitempty"`
}

// Config is the root facts configuration file shape (spec.md §6 "Facts
// configuration file").
type Config struct {
	Global     GlobalSettings    `yaml:"global"`
	Collectors []CollectorConfig `yaml:"collectors"`
	Export     ExportConfig      `yaml:"export"`
}
