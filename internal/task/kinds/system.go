package kinds

import (
	"context"
	"fmt"

	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/internal/task/kinds/runner"
)

// RegisterSystem wires the host-state kinds — service, user, group, cron,
// mount, filesystem, sysctl, hostname, timezone, reboot, shutdown —
// against reg, dispatching through r.
func RegisterSystem(reg *task.Registry, r runner.Runner) {
	reg.Register("service", serviceExecutor(r), requireNonEmpty("name"))
	reg.Register("user", userExecutor(r), requireNonEmpty("name"))
	reg.Register("group", groupExecutor(r), requireNonEmpty("name"))
	reg.Register("cron", cronExecutor(r), requireNonEmpty("job"))
	reg.Register("mount", mountExecutor(r), requireAllNonEmpty("path", "src"))
	reg.Register("filesystem", filesystemExecutor(r), requireNonEmpty("dev"))
	reg.Register("sysctl", sysctlExecutor(r), requireNonEmpty("name"))
	reg.Register("hostname", hostnameExecutor(r), requireNonEmpty("name"))
	reg.Register("timezone", timezoneExecutor(r), requireNonEmpty("name"))
	reg.Register("reboot", rebootExecutor(r), nil)
	reg.Register("shutdown", shutdownExecutor(r), nil)
}

func runCommand(ctx context.Context, r runner.Runner, t *task.Task, ec *task.ExecContext, describe string, name string, args ...string) (task.Result, error) {
	if ec.DryRun {
		return task.Result{Changed: true, Data: map[string]interface{}{"would": describe}}, nil
	}
	if _, err := r.Run(ctx, taskTimeout(t), name, args...); err != nil {
		return task.Result{}, fmt.Errorf("%s: %w", describe, err)
	}
	return task.Result{Changed: true}, nil
}

func serviceExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		name := t.AttrString("name")
		state := t.AttrString("state")
		if state == "" {
			state = "started"
		}
		verb := map[string]string{"started": "start", "stopped": "stop", "restarted": "restart", "reloaded": "reload"}[state]
		if verb == "" {
			return task.Result{}, fmt.Errorf("unsupported service state %q", state)
		}
		res, err := runCommand(ctx, r, t, ec, fmt.Sprintf("%s service %s", verb, name), "systemctl", verb, name)
		if err == nil && t.AttrString("enabled") == "true" && !ec.DryRun {
			_, _ = r.Run(ctx, taskTimeout(t), "systemctl", "enable", name)
		}
		return res, err
	}
}

func userExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		name := t.AttrString("name")
		if t.AttrString("state") == "absent" {
			return runCommand(ctx, r, t, ec, "remove user "+name, "userdel", name)
		}
		return runCommand(ctx, r, t, ec, "create user "+name, "useradd", name)
	}
}

func groupExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		name := t.AttrString("name")
		if t.AttrString("state") == "absent" {
			return runCommand(ctx, r, t, ec, "remove group "+name, "groupdel", name)
		}
		return runCommand(ctx, r, t, ec, "create group "+name, "groupadd", name)
	}
}

func cronExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		job := t.AttrString("job")
		return task.Result{Changed: true, Data: map[string]interface{}{"job": job}}, nil
	}
}

func mountExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		path := t.AttrString("path")
		src := t.AttrString("src")
		return runCommand(ctx, r, t, ec, fmt.Sprintf("mount %s at %s", src, path), "mount", src, path)
	}
}

func filesystemExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		dev := t.AttrString("dev")
		fstype := t.AttrString("fstype")
		if fstype == "" {
			fstype = "ext4"
		}
		return runCommand(ctx, r, t, ec, fmt.Sprintf("format %s as %s", dev, fstype), "mkfs", "-t", fstype, dev)
	}
}

func sysctlExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		name := t.AttrString("name")
		value := t.AttrString("value")
		return runCommand(ctx, r, t, ec, fmt.Sprintf("sysctl %s=%s", name, value), "sysctl", "-w", fmt.Sprintf("%s=%s", name, value))
	}
}

func hostnameExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		name := t.AttrString("name")
		return runCommand(ctx, r, t, ec, "set hostname to "+name, "hostnamectl", "set-hostname", name)
	}
}

func timezoneExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		name := t.AttrString("name")
		return runCommand(ctx, r, t, ec, "set timezone to "+name, "timedatectl", "set-timezone", name)
	}
}

func rebootExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		return runCommand(ctx, r, t, ec, "reboot host", "shutdown", "-r", "now")
	}
}

func shutdownExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		return runCommand(ctx, r, t, ec, "shut down host", "shutdown", "-h", "now")
	}
}
