package plugin

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytecodealliance/wasmtime-go/v3"
	"github.com/driftless-hq/driftless-sub001/internal/apierr"
)

// requiredEnumerationExports are the seven functions spec.md §4.5 requires
// every plugin module to export: "A plugin missing any enumeration export
// fails validation." Log-pipeline contributions (get_log_sources/parsers/
// filters/outputs) are enumerated for validation completeness but never
// dispatched — the log-ingestion pipeline is explicitly out of scope
// (spec.md §1).
var requiredEnumerationExports = []string{
	"get_task_definitions",
	"get_facts_collectors",
	"get_template_extensions",
	"get_log_sources",
	"get_log_parsers",
	"get_log_filters",
	"get_log_outputs",
}

// ValidationResult carries the outcome of the six-step pipeline. A module
// with a non-empty Errors slice must not be loaded; Warnings never block
// loading.
type ValidationResult struct {
	Module   *wasmtime.Module
	Exports  []string
	Errors   []string
	Warnings []string
}

// OK reports whether the module passed every blocking check.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// validateFile runs the six-step validation pipeline against the raw module
// bytes at path: (1) file size cap, (2) module decode, (3) import validation
// against the forbidden system-interface/env sets, (4) resource caps on
// memory/table imports, (5) export name audit for dangerous-sounding
// patterns, (6) required-export check for the enumeration functions.
// Grounded on spec.md §4.5's validation contract; expressed with wasmtime-go
// v3's Module.Imports()/Exports() introspection, the only pack dependency
// that exposes WASM module structure directly.
func validateFile(engine *wasmtime.Engine, path string, policy Policy) (ValidationResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ValidationResult{}, apierr.Validation("plugin", path, "cannot stat plugin file: "+err.Error())
	}
	var result ValidationResult
	if policy.MaxFileSizeBytes > 0 && info.Size() > policy.MaxFileSizeBytes {
		result.Errors = append(result.Errors, fmt.Sprintf("module %d bytes exceeds max %d", info.Size(), policy.MaxFileSizeBytes))
		return result, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ValidationResult{}, apierr.Validation("plugin", path, "cannot read plugin file: "+err.Error())
	}

	module, err := wasmtime.NewModule(engine, data)
	if err != nil {
		result.Errors = append(result.Errors, "module decode failed: "+err.Error())
		return result, nil
	}
	result.Module = module

	allowed := policy.allowedSystemInterfaceSet()
	memoryImports, tableImports := 0, 0
	for _, imp := range module.Imports() {
		module := imp.Module()
		name := ""
		if imp.Name() != nil {
			name = *imp.Name()
		}
		switch {
		case module == systemInterfaceNamespace:
			if forbiddenSystemInterfaceImports[name] || !policy.AllowSystemInterface || !allowed[name] {
				result.Errors = append(result.Errors, fmt.Sprintf("forbidden system-interface import %s.%s", module, name))
			}
		case forbiddenEnvImports[name]:
			result.Errors = append(result.Errors, fmt.Sprintf("forbidden import %s.%s", module, name))
		}
		if imp.Type().MemoryType() != nil {
			memoryImports++
		}
		if imp.Type().TableType() != nil {
			tableImports++
		}
	}
	if policy.MaxMemories > 0 && memoryImports > policy.MaxMemories {
		result.Errors = append(result.Errors, fmt.Sprintf("module imports %d memories, max %d", memoryImports, policy.MaxMemories))
	}
	if policy.MaxTables > 0 && tableImports > policy.MaxTables {
		result.Errors = append(result.Errors, fmt.Sprintf("module imports %d tables, max %d", tableImports, policy.MaxTables))
	}

	var exportNames []string
	for _, exp := range module.Exports() {
		name := exp.Name()
		exportNames = append(exportNames, name)
		lower := strings.ToLower(name)
		for _, pattern := range dangerousExportPatterns {
			if strings.Contains(lower, pattern) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("export %q matches dangerous-name pattern %q", name, pattern))
			}
		}
	}
	result.Exports = exportNames

	present := make(map[string]bool, len(exportNames))
	for _, name := range exportNames {
		present[name] = true
	}
	for _, required := range requiredEnumerationExports {
		if !present[required] {
			result.Errors = append(result.Errors, fmt.Sprintf("module is missing required enumeration export %q", required))
		}
	}

	return result, nil
}
