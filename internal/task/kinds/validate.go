// Package kinds implements the built-in task kinds spec.md §4.1 enumerates,
// each as an (executor, validator) pair registered against a
// task.Registry. Grounded on the original implementation's
// src/apply/tasks/*.rs modules for per-kind required-attribute and
// idempotency semantics, expressed through the teacher's dispatch-pair
// registration style (internal/capability/manager.go).
package kinds

import (
	"fmt"

	"github.com/driftless-hq/driftless-sub001/internal/apierr"
	"github.com/driftless-hq/driftless-sub001/internal/task"
)

// requireNonEmpty builds a Validator demanding that field be present and,
// if a string, non-empty (spec.md §8 property 1).
func requireNonEmpty(field string) task.Validator {
	return func(t *task.Task, index int) error {
		v, ok := t.Attr(field)
		if !ok {
			return apierr.Validation("task.kinds", t.Type, fmt.Sprintf("attribute %q is required at index %d", field, index))
		}
		if s, isStr := v.(string); isStr && s == "" {
			return apierr.Validation("task.kinds", t.Type, fmt.Sprintf("attribute %q must not be empty at index %d", field, index))
		}
		return nil
	}
}

// requireAllNonEmpty combines several requireNonEmpty checks.
func requireAllNonEmpty(fields ...string) task.Validator {
	return func(t *task.Task, index int) error {
		for _, f := range fields {
			if err := requireNonEmpty(f)(t, index); err != nil {
				return err
			}
		}
		return nil
	}
}

// requireNonEmptyList validates that field is present and is a non-empty
// list (e.g. archive's sources).
func requireNonEmptyList(field string) task.Validator {
	return func(t *task.Task, index int) error {
		v, ok := t.Attr(field)
		if !ok {
			return apierr.Validation("task.kinds", t.Type, fmt.Sprintf("attribute %q is required at index %d", field, index))
		}
		items, isSlice := v.([]interface{})
		if !isSlice || len(items) == 0 {
			return apierr.Validation("task.kinds", t.Type, fmt.Sprintf("attribute %q must be a non-empty list at index %d", field, index))
		}
		return nil
	}
}

// requireOneOf validates that exactly one of fields is present and
// non-empty (e.g. replace's regexp/before, firewalld's service/port/rich_rule).
func requireOneOf(fields ...string) task.Validator {
	return func(t *task.Task, index int) error {
		count := 0
		for _, f := range fields {
			if v, ok := t.Attr(f); ok {
				if s, isStr := v.(string); !isStr || s != "" {
					count++
				}
			}
		}
		if count != 1 {
			return apierr.Validation("task.kinds", t.Type, fmt.Sprintf("exactly one of %v is required at index %d", fields, index))
		}
		return nil
	}
}
