package config

import "fmt"

// ConfigurationError is a structured error recorded while loading one
// configuration file, used by LoadAndParseYAML to keep loading the rest of
// a directory instead of failing the whole load on one bad file.
type ConfigurationError struct {
	FilePath  string // full path to the file that caused the error
	FileName  string // base name of the file
	Source    string // "user" or "project"
	Category  string // which config this came from: "apply" or "facts"
	ErrorType string // "io", "parse", or "validation"
	Message   string // human-readable error message
}

// Error implements the error interface.
func (ce ConfigurationError) Error() string {
	return fmt.Sprintf("[%s/%s] %s: %s", ce.Source, ce.Category, ce.FileName, ce.Message)
}

// ConfigurationErrorCollection accumulates the ConfigurationErrors found
// across every file in a directory load.
type ConfigurationErrorCollection struct {
	Errors []ConfigurationError
}

// Error implements the error interface for the collection.
func (cec ConfigurationErrorCollection) Error() string {
	if len(cec.Errors) == 0 {
		return "no configuration errors"
	}
	if len(cec.Errors) == 1 {
		return cec.Errors[0].Error()
	}
	return fmt.Sprintf("%d configuration errors: %s (and %d more)",
		len(cec.Errors), cec.Errors[0].Error(), len(cec.Errors)-1)
}

// AddError adds a basic error to the collection with context.
func (cec *ConfigurationErrorCollection) AddError(filePath, fileName, source, category, errorType, message string) {
	cec.Errors = append(cec.Errors, ConfigurationError{
		FilePath:  filePath,
		FileName:  fileName,
		Source:    source,
		Category:  category,
		ErrorType: errorType,
		Message:   message,
	})
}
