package config

import (
	"fmt"
	"os"

	"github.com/driftless-hq/driftless-sub001/internal/facts"
	"gopkg.in/yaml.v3"
)

// LoadFactsConfig reads and parses the facts configuration file at path
// (spec.md §6 "Facts configuration file"), then enforces the data-model
// invariant that every collector's name is unique within the file
// (spec.md §3 "Facts configuration"). A missing file returns a disabled,
// empty Config rather than an error, since a facts-less deployment is valid.
func LoadFactsConfig(path string) (facts.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return facts.Config{}, nil
		}
		return facts.Config{}, fmt.Errorf("reading facts config %s: %w", path, err)
	}
	var cfg facts.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return facts.Config{}, fmt.Errorf("parsing facts config %s: %w", path, err)
	}
	if err := validateCollectors(cfg); err != nil {
		return facts.Config{}, err
	}
	return cfg, nil
}

// validateCollectors enforces spec.md §3's facts-config invariants: every
// collector names its type and a unique, non-empty name, reporting every
// offending index at once rather than failing on the first.
func validateCollectors(cfg facts.Config) error {
	var errs ValidationErrors
	seen := make(map[string]bool, len(cfg.Collectors))
	for i, c := range cfg.Collectors {
		if err := ValidateRequired("name", c.Name, "facts collector"); err != nil {
			errs.Add(fmt.Sprintf("collectors[%d].name", i), err.Error())
			continue
		}
		if seen[c.Name] {
			errs.Add(fmt.Sprintf("collectors[%d].name", i), fmt.Sprintf("duplicate collector name %q", c.Name))
			continue
		}
		seen[c.Name] = true
		if err := ValidateRequired("type", c.Type, "facts collector"); err != nil {
			errs.Add(fmt.Sprintf("collectors[%d].type", i), err.Error())
		}
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
