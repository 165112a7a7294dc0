// Package apierr implements the typed error taxonomy every component in the
// agent returns through: Validation, Render, Dispatch, Network, Sandbox,
// Security, and User (spec.md §7 "Error handling design"). Grounded on
// internal/api's NotFoundError pattern from the teacher repo — a small
// struct implementing error, a matching errors.As-based Is* predicate, and
// constructor functions per call site.
package apierr

import (
	"errors"
	"fmt"
)

// Class names one of the seven error categories spec.md §7 enumerates.
type Class string

const (
	ClassValidation Class = "validation"
	ClassRender     Class = "render"
	ClassDispatch   Class = "dispatch"
	ClassNetwork    Class = "network"
	ClassSandbox    Class = "sandbox"
	ClassSecurity   Class = "security"
	ClassUser       Class = "user"
)

// Error is the concrete type every apierr constructor returns. Component
// names what produced it ("task.registry", "plugin.host", ...) for log
// correlation; Target names the task/fact/plugin the error concerns.
type Error struct {
	Class     Class
	Component string
	Target    string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s: %s (%s): %s", e.Class, e.Component, e.Target, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Class, e.Component, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func new(class Class, component, target, message string, cause error) *Error {
	return &Error{Class: class, Component: component, Target: target, Message: message, Cause: cause}
}

// Validation wraps a schema/attribute validation failure — a task kind's
// Validate, a facts collector config check, a plugin manifest field.
func Validation(component, target, message string) *Error {
	return new(ClassValidation, component, target, message, nil)
}

// Render wraps a template-rendering failure — a missing variable, an
// invalid Go template expression.
func Render(component, target string, cause error) *Error {
	return new(ClassRender, component, target, cause.Error(), cause)
}

// Dispatch wraps a failure to hand a task off to its registered runner —
// unknown kind, nil handler, panic recovered at the dispatch boundary.
func Dispatch(component, target string, cause error) *Error {
	return new(ClassDispatch, component, target, cause.Error(), cause)
}

// Network wraps a failure reaching an external endpoint — fetch/uri/get_url
// task kinds, a facts exporter's remote write, a plugin registry fetch.
func Network(component, target string, cause error) *Error {
	return new(ClassNetwork, component, target, cause.Error(), cause)
}

// Sandbox wraps a WASM execution failure inside resource limits — fuel
// exhaustion, epoch deadline, memory cap, trap.
func Sandbox(component, target, message string, cause error) *Error {
	return new(ClassSandbox, component, target, message, cause)
}

// Security wraps a policy violation — an unsigned/oversized/disallowed
// plugin module, a forbidden host import.
func Security(component, target, message string) *Error {
	return new(ClassSecurity, component, target, message, nil)
}

// User wraps an error whose root cause is the caller's input — a malformed
// task file, a CLI flag conflict — as opposed to an internal fault.
func User(component, target, message string) *Error {
	return new(ClassUser, component, target, message, nil)
}

// Is reports whether err is an *Error of the given class.
func Is(err error, class Class) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Class == class
}
