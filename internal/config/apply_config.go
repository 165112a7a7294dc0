package config

import (
	"fmt"
	"os"

	"github.com/driftless-hq/driftless-sub001/internal/task"
	"gopkg.in/yaml.v3"
)

// ApplyConfig is the apply configuration file shape spec.md §6 names: an
// ordered list of tasks under `tasks`, plus an optional `vars` mapping
// seeding the variable context for the run.
type ApplyConfig struct {
	Tasks []task.Task            `yaml:"tasks"`
	Vars  map[string]interface{} `yaml:"vars,omitempty"`
}

// LoadApplyConfig reads and parses the apply configuration file at path. A
// missing file is an error here (unlike LoadAgentConfig's defaults overlay):
// an apply run with nothing to apply is a caller mistake, not a valid state.
func LoadApplyConfig(path string) (ApplyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ApplyConfig{}, fmt.Errorf("reading apply config %s: %w", path, err)
	}
	var cfg ApplyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ApplyConfig{}, fmt.Errorf("parsing apply config %s: %w", path, err)
	}
	if err := validateTasks(cfg.Tasks); err != nil {
		return ApplyConfig{}, err
	}
	return cfg, nil
}

// validateTasks enforces that every task in the list names its kind, ahead
// of the registry's own per-kind attribute validation (internal/task's
// Registry.ValidateAll), reporting every offending index at once.
func validateTasks(tasks []task.Task) error {
	var errs ValidationErrors
	for i, t := range tasks {
		if err := ValidateRequired("type", t.Type, "apply task"); err != nil {
			errs.Add(fmt.Sprintf("tasks[%d].type", i), err.Error())
		}
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
