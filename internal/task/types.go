// Package task implements the task registry and executor described in
// spec.md §4.1/§4.2: a typed, polymorphic registry of idempotent operations
// with validation, dry-run, variable interpolation, conditional execution,
// inclusion, and fact registration. Grounded on the teacher repo's
// capability/workflow executor pair (internal/capability/executor_types.go,
// internal/workflow/executor.go) generalized from an MCP-tool-step executor
// to a desired-state task executor, and on
// original_source/src/apply/task_registry.rs for the registry contract
// itself.
package task

// Task is the tagged-variant task representation (spec.md §3 "Data
// model"): a discriminator (Type) selecting the kind, kind-specific
// attributes, and the orthogonal attributes every kind shares.
type Task struct {
	Type         string                 `yaml:"type"`
	Description  string                 `yaml:"description,omitempty"`
	Attrs        map[string]interface{} `yaml:",inline"`
	When         string                 `yaml:"when,omitempty"`
	Register     string                 `yaml:"register,omitempty"`
	Loop         interface{}            `yaml:"loop,omitempty"`
	IgnoreErrors bool                   `yaml:"ignore_errors,omitempty"`
	ChangedWhen  string                 `yaml:"changed_when,omitempty"`
	FailedWhen   string                 `yaml:"failed_when,omitempty"`
}

// Attr returns a kind-specific attribute, or ok=false when absent.
func (t *Task) Attr(name string) (interface{}, bool) {
	v, ok := t.Attrs[name]
	return v, ok
}

// AttrString returns a kind-specific attribute as a string, or "" when
// absent or not a string.
func (t *Task) AttrString(name string) string {
	v, ok := t.Attrs[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Result is what a kind's Executor returns: whether it changed system
// state, free-form result data bound to `register`, and any failure.
type Result struct {
	Changed bool
	Data    map[string]interface{}
	Err     error
}

// Outcome classifies a single task's disposition after running through the
// executor's changed/failed/ignore_errors decision (spec.md §4.2).
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeChanged
	OutcomeSkipped
	OutcomeFailed
	OutcomeIgnoredFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeChanged:
		return "changed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	case OutcomeIgnoredFailure:
		return "ignored"
	default:
		return "unknown"
	}
}

// StepResult records one task's execution for the apply run's report,
// grounded on the teacher's workflow.StepResult shape
// (internal/capability/executor_types.go).
type StepResult struct {
	Index       int
	Kind        string
	Description string
	Outcome     Outcome
	Data        map[string]interface{}
	Error       string
}
