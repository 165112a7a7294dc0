package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/driftless-hq/driftless-sub001/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDirName = ".config/driftless"
	configFileName    = "config.yaml"
)

// GetConfigurationPaths returns the user-level and project-level configuration
// directories, in that precedence order (project overrides user), mirroring the
// two-tier layout task/facts definitions are loaded from.
func GetConfigurationPaths() (userDir, projectDir string, err error) {
	homeDir, herr := os.UserHomeDir()
	if herr != nil {
		return "", "", fmt.Errorf("could not determine user config directory: %w", herr)
	}
	userDir = filepath.Join(homeDir, userConfigDirName)

	cwd, cerr := os.Getwd()
	if cerr != nil {
		return "", "", fmt.Errorf("could not determine working directory: %w", cerr)
	}
	projectDir = filepath.Join(cwd, ".driftless")

	return userDir, projectDir, nil
}

// LoadAgentConfig loads the agent's top-level config.yaml from configPath,
// overlaying it onto DefaultConfig. A missing file is not an error.
func LoadAgentConfig(configPath string) (AgentConfig, error) {
	cfg := DefaultConfig()

	configFilePath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "no config.yaml found at %s, using defaults", configFilePath)
			return cfg, nil
		}
		return AgentConfig{}, fmt.Errorf("reading %s: %w", configFilePath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AgentConfig{}, fmt.Errorf("parsing %s: %w", configFilePath, err)
	}

	logging.Info("ConfigLoader", "loaded configuration from %s", configFilePath)
	return cfg, nil
}

// LoadAndParseYAML loads every *.yaml/*.yml file directly under dir, parses
// each into a T, runs validate (if non-nil) on each, and returns the valid
// definitions plus a collection describing any per-file errors. It never
// fails the whole load because of one bad file — bad files are recorded in
// the returned ConfigurationErrorCollection and skipped, following the
// teacher's "log and continue with valid definitions" loading contract.
func LoadAndParseYAML[T any](dir, category string, validate func(T) error) ([]T, ConfigurationErrorCollection, error) {
	var out []T
	var errs ConfigurationErrorCollection

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, errs, nil
		}
		return nil, errs, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		filePath := filepath.Join(dir, name)
		data, readErr := os.ReadFile(filePath)
		if readErr != nil {
			errs.AddError(filePath, name, "project", category, "io", readErr.Error())
			continue
		}

		var def T
		if parseErr := yaml.Unmarshal(data, &def); parseErr != nil {
			errs.AddError(filePath, name, "project", category, "parse", parseErr.Error())
			continue
		}

		if validate != nil {
			if validateErr := validate(def); validateErr != nil {
				errs.AddError(filePath, name, "project", category, "validation", validateErr.Error())
				continue
			}
		}

		out = append(out, def)
	}

	return out, errs, nil
}

// ResolveRelative resolves a path relative to baseDir, unless it is already
// absolute. Nothing in this tree calls it: include_tasks joins its path
// onto the execution context's BaseDir inline (internal/task/executor.go).
func ResolveRelative(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
