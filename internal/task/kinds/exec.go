package kinds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/internal/task/kinds/runner"
)

// RegisterExec wires command, script, and raw against reg, dispatching
// external processes through r. Every kind here accepts a per-task
// `timeout` attribute (seconds) enforced by killing the child (spec.md §5).
func RegisterExec(reg *task.Registry, r runner.Runner) {
	reg.Register("command", commandExecutor(r), requireNonEmpty("command"))
	reg.Register("script", scriptExecutor(r), requireNonEmpty("path"))
	reg.Register("raw", rawExecutor(r), requireNonEmpty("executable"))
}

func taskTimeout(t *task.Task) time.Duration {
	v, ok := t.Attr("timeout")
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return time.Duration(n) * time.Second
	case float64:
		return time.Duration(n) * time.Second
	default:
		return 0
	}
}

func commandExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		command := t.AttrString("command")
		if ec.DryRun {
			return task.Result{Changed: true, Data: map[string]interface{}{"would": "run: " + command}}, nil
		}
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return task.Result{}, fmt.Errorf("empty command")
		}
		res, err := r.Run(ctx, taskTimeout(t), fields[0], fields[1:]...)
		if err != nil {
			return task.Result{}, fmt.Errorf("running command %q: %w", command, err)
		}
		return task.Result{Changed: true, Data: map[string]interface{}{
			"stdout": res.Stdout, "stderr": res.Stderr, "rc": res.ExitCode,
		}}, nil
	}
}

func scriptExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		path := t.AttrString("path")
		if ec.DryRun {
			return task.Result{Changed: true, Data: map[string]interface{}{"would": "run script " + path}}, nil
		}
		res, err := r.Run(ctx, taskTimeout(t), path)
		if err != nil {
			return task.Result{}, fmt.Errorf("running script %s: %w", path, err)
		}
		return task.Result{Changed: true, Data: map[string]interface{}{
			"stdout": res.Stdout, "stderr": res.Stderr, "rc": res.ExitCode,
		}}, nil
	}
}

func rawExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		executable := t.AttrString("executable")
		if ec.DryRun {
			return task.Result{Changed: true, Data: map[string]interface{}{"would": "exec " + executable}}, nil
		}
		fields := strings.Fields(executable)
		res, err := r.Run(ctx, taskTimeout(t), fields[0], fields[1:]...)
		if err != nil {
			return task.Result{}, fmt.Errorf("running raw %q: %w", executable, err)
		}
		return task.Result{Changed: true, Data: map[string]interface{}{
			"stdout": res.Stdout, "stderr": res.Stderr, "rc": res.ExitCode,
		}}, nil
	}
}
