package task

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/driftless-hq/driftless-sub001/internal/apierr"
	"github.com/driftless-hq/driftless-sub001/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Run executes tasks in order against ec, following spec.md §4.2's pipeline
// for each task: render attributes → evaluate `when` → expand `loop` →
// dispatch to the registered kind → bind `register` → decide
// changed/failed/ignored. It aborts at the first unhandled failure unless
// the failing task sets `ignore_errors`, mirroring the
// teacher's WorkflowExecutor.ExecuteWorkflow step loop
// (internal/workflow/executor.go) generalized from MCP tool steps to
// desired-state tasks.
func Run(ctx context.Context, tasks []Task, ec *ExecContext) ([]StepResult, error) {
	results := make([]StepResult, 0, len(tasks))

	if err := ec.Registry.ValidateAll(tasks); err != nil {
		return results, err
	}

	for i := range tasks {
		t := &tasks[i]
		logging.Debug("Executor", "task %d: dispatching kind %q", i, t.Type)

		when, err := evalWhen(t.When, ec)
		if err != nil {
			return results, apierr.Render("task.executor", t.Type, err)
		}
		if !when {
			results = append(results, StepResult{Index: i, Kind: t.Type, Description: t.Description, Outcome: OutcomeSkipped})
			continue
		}

		iterations, err := expandLoop(t.Loop, ec)
		if err != nil {
			return results, apierr.Render("task.executor", t.Type, err)
		}

		if len(iterations) == 0 {
			res, sr, err := runOne(ctx, i, t, ec)
			results = append(results, sr)
			if err != nil && !t.IgnoreErrors {
				return results, err
			}
			_ = res
			continue
		}

		for _, item := range iterations {
			loopCtx := ec.Vars.Clone()
			loopCtx.Set("item", item)
			iterEC := *ec
			iterEC.Vars = loopCtx
			_, sr, err := runOne(ctx, i, t, &iterEC)
			ec.Vars.Merge(loopCtx)
			results = append(results, sr)
			if err != nil && !t.IgnoreErrors {
				return results, err
			}
		}
	}

	return results, nil
}

func runOne(ctx context.Context, index int, t *Task, ec *ExecContext) (Result, StepResult, error) {
	rendered, err := renderAttrs(t, ec)
	if err != nil {
		return Result{}, StepResult{Index: index, Kind: t.Type, Description: t.Description, Outcome: OutcomeFailed, Error: err.Error()}, apierr.Render("task.executor", t.Type, err)
	}

	result, execErr := ec.Registry.Execute(ctx, rendered, ec)

	if t.Register != "" {
		// spec.md §4.2 step 5: "bind the task's result value to the
		// variable" — the registered name addresses the result data
		// directly (e.g. stat's `m.exists`), not a wrapper envelope.
		ec.Vars.Set(t.Register, result.Data)
	}

	outcome, derivedErr := decideOutcome(t, ec, result, execErr)

	sr := StepResult{Index: index, Kind: t.Type, Description: t.Description, Outcome: outcome, Data: result.Data}
	if derivedErr != nil {
		sr.Error = derivedErr.Error()
		if t.IgnoreErrors {
			logging.Warn("Executor", "task %d (%s) failed, ignore_errors set: %v", index, t.Type, derivedErr)
			sr.Outcome = OutcomeIgnoredFailure
			return result, sr, derivedErr
		}
		return result, sr, apierr.Dispatch("task.executor", t.Type, derivedErr)
	}
	return result, sr, nil
}

// decideOutcome applies changed_when/failed_when overrides over the kind's
// own Result.Changed/error, per spec.md §4.2.
func decideOutcome(t *Task, ec *ExecContext, result Result, execErr error) (Outcome, error) {
	if t.FailedWhen != "" {
		failed, err := evalWhen(t.FailedWhen, ec)
		if err == nil {
			if failed {
				if execErr == nil {
					execErr = fmt.Errorf("failed_when condition matched")
				}
			} else {
				execErr = nil
			}
		}
	}
	if execErr != nil {
		return OutcomeFailed, execErr
	}

	changed := result.Changed
	if t.ChangedWhen != "" {
		if c, err := evalWhen(t.ChangedWhen, ec); err == nil {
			changed = c
		}
	}
	if changed {
		return OutcomeChanged, nil
	}
	return OutcomeOK, nil
}

// bareVarPattern matches dotted variable paths (e.g. "m.exists") that
// aren't already dot-prefixed, so spec.md §4.2's bare condition syntax
// (`when: "not m.exists"`) can be handed to text/template, which only
// resolves field chains starting with ".".
var bareVarPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*\.[A-Za-z0-9_.]*[A-Za-z0-9_]`)

// normalizeCondition dot-prefixes every bare variable path in expr that
// isn't already dot-prefixed, leaving quoted strings and Go-template-native
// expressions (already starting with ".") untouched.
func normalizeCondition(expr string) string {
	idxs := bareVarPattern.FindAllStringIndex(expr, -1)
	if len(idxs) == 0 {
		return expr
	}
	var b strings.Builder
	last := 0
	for _, loc := range idxs {
		start, end := loc[0], loc[1]
		b.WriteString(expr[last:start])
		if start > 0 && expr[start-1] == '.' {
			b.WriteString(expr[start:end])
		} else {
			b.WriteByte('.')
			b.WriteString(expr[start:end])
		}
		last = end
	}
	b.WriteString(expr[last:])
	return b.String()
}

// evalWhen renders expr as a Go template against ec's variables and
// interprets a "true"/"false" result as the boolean gate. An empty
// expression always evaluates true (no condition).
func evalWhen(expr string, ec *ExecContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	normalized := normalizeCondition(expr)
	wrapped := normalized
	if len(normalized) < 2 || normalized[0:2] != "{{" {
		wrapped = "{{ " + normalized + " }}"
	}
	out, err := ec.Engine.RenderGoTemplate(wrapped, ec.Vars.All())
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not evaluate to a boolean", expr)
	}
	return b, nil
}

// expandLoop resolves the `loop` attribute (a literal list, or a template
// string resolving to one) into its iteration items. A nil/empty loop
// yields zero iterations, signaling runOne should be called exactly once.
func expandLoop(loop interface{}, ec *ExecContext) ([]interface{}, error) {
	switch v := loop.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		return v, nil
	case string:
		resolved, err := ec.Engine.Replace(v, ec.Vars.All())
		if err != nil {
			return nil, err
		}
		items, ok := resolved.([]interface{})
		if !ok {
			return nil, fmt.Errorf("loop expression did not resolve to a list")
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unsupported loop value of type %T", loop)
	}
}

// renderAttrs returns a copy of t with every string/map/slice attribute run
// through one-pass {{ var.path }} substitution (spec.md §4.2 "Rendering").
func renderAttrs(t *Task, ec *ExecContext) (*Task, error) {
	rendered, err := ec.Engine.Replace(map[string]interface{}(t.Attrs), ec.Vars.All())
	if err != nil {
		return nil, err
	}
	attrMap, _ := rendered.(map[string]interface{})

	when := t.When
	if when != "" {
		if w, err := ec.Engine.Replace(when, ec.Vars.All()); err == nil {
			if s, ok := w.(string); ok {
				when = s
			}
		}
	}

	out := *t
	out.Attrs = attrMap
	out.When = when
	return &out, nil
}

// RegisterFlowControlKinds registers the kinds whose semantics require
// recursing back into Run itself: include_tasks and include_role. They live
// alongside the executor rather than in internal/task/kinds to avoid an
// import cycle (the kinds package imports task for Executor/ExecContext).
func RegisterFlowControlKinds(r *Registry) {
	r.Register("include_tasks", includeTasksExecutor, requireNonEmpty("file"))
	r.Register("include_role", includeRoleExecutor, requireNonEmpty("name"))
}

func requireNonEmpty(field string) Validator {
	return func(t *Task, index int) error {
		v, ok := t.Attr(field)
		if !ok {
			return apierr.Validation("task.registry", t.Type, fmt.Sprintf("attribute %q is required at index %d", field, index))
		}
		s, isStr := v.(string)
		if isStr && s == "" {
			return apierr.Validation("task.registry", t.Type, fmt.Sprintf("attribute %q must not be empty at index %d", field, index))
		}
		return nil
	}
}

func includeTasksExecutor(ctx context.Context, t *Task, ec *ExecContext) (Result, error) {
	if ec.IncludeDepth >= IncludeDepthLimit {
		return Result{}, fmt.Errorf("include_tasks depth limit (%d) exceeded", IncludeDepthLimit)
	}
	file := t.AttrString("file")
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(ec.BaseDir, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading include_tasks file %s: %w", file, err)
	}
	var children []Task
	if err := yaml.Unmarshal(raw, &children); err != nil {
		return Result{}, fmt.Errorf("parsing include_tasks file %s: %w", file, err)
	}

	childEC := ec.Child()
	results, err := Run(ctx, children, childEC)
	if err != nil {
		return Result{Data: map[string]interface{}{"results": results}}, err
	}
	ec.Vars.Merge(childEC.Vars)

	changed := false
	for _, r := range results {
		if r.Outcome == OutcomeChanged {
			changed = true
			break
		}
	}
	return Result{Changed: changed, Data: map[string]interface{}{"results": len(results)}}, nil
}

func includeRoleExecutor(ctx context.Context, t *Task, ec *ExecContext) (Result, error) {
	name := t.AttrString("name")
	path := filepath.Join(ec.BaseDir, "roles", name, "tasks.yaml")
	aliased := *t
	aliased.Attrs = map[string]interface{}{"file": path}
	return includeTasksExecutor(ctx, &aliased, ec)
}
