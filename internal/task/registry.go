package task

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/driftless-hq/driftless-sub001/internal/apierr"
)

// Executor runs one task of a given kind against its execution context.
type Executor func(ctx context.Context, t *Task, ec *ExecContext) (Result, error)

// Validator checks that a task of a given kind carries its required
// attributes, returning an error naming the task index and the omitted
// field when it doesn't (spec.md §8 property 1).
type Validator func(t *Task, index int) error

type registration struct {
	executor  Executor
	validator Validator
}

// Registry maps a task-kind string to an (executor, validator) pair
// (spec.md §4.1). Guarded by a read/write lock so concurrent
// validation/execution reads never block each other; registration is rare
// and idempotent-by-replacement.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]registration
}

// NewRegistry returns an empty task registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]registration)}
}

// Register inserts or replaces the (executor, validator) pair for kind.
// validator may be nil: a registered kind without an attached validator is
// considered valid (spec.md §4.1).
func (r *Registry) Register(kind string, executor Executor, validator Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[kind] = registration{executor: executor, validator: validator}
}

// Kinds returns every registered kind tag, sorted for deterministic output
// (used by tests and introspection).
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate runs kind's validator, if any, against t at position index in
// the task list. Validating an unregistered kind fails with an apierr
// Validation error naming the kind.
func (r *Registry) Validate(t *Task, index int) error {
	r.mu.RLock()
	reg, ok := r.kinds[t.Type]
	r.mu.RUnlock()
	if !ok {
		return apierr.Validation("task.registry", t.Type, fmt.Sprintf("unknown task kind %q at index %d", t.Type, index))
	}
	if reg.validator == nil {
		return nil
	}
	return reg.validator(t, index)
}

// ValidateAll runs Validate against every task in order, returning the first
// failure. Called by Run before any task executes, per spec.md §4.2: "Before
// executing any task, the executor calls validate on every task in order. If
// any validation fails, execution is aborted before any task runs."
func (r *Registry) ValidateAll(tasks []Task) error {
	for i := range tasks {
		if err := r.Validate(&tasks[i], i); err != nil {
			return err
		}
	}
	return nil
}

// Execute dispatches t to kind's executor. Executing an unregistered kind
// fails with an apierr Dispatch error naming the kind (spec.md §4.1).
func (r *Registry) Execute(ctx context.Context, t *Task, ec *ExecContext) (Result, error) {
	r.mu.RLock()
	reg, ok := r.kinds[t.Type]
	r.mu.RUnlock()
	if !ok {
		return Result{}, apierr.Dispatch("task.registry", t.Type, fmt.Errorf("unknown task kind %q", t.Type))
	}
	return reg.executor(ctx, t, ec)
}
