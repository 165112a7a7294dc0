package kinds

import (
	"context"
	"fmt"

	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/internal/task/kinds/runner"
)

// RegisterSecurity wires authorized_key, sudoers, firewalld, ufw, selinux,
// and iptables against reg.
func RegisterSecurity(reg *task.Registry, r runner.Runner) {
	reg.Register("authorized_key", authorizedKeyExecutor, requireNonEmpty("user"))
	reg.Register("sudoers", sudoersExecutor, requireNonEmpty("name"))
	reg.Register("firewalld", firewalldExecutor(r), requireFirewalldAttrs)
	reg.Register("ufw", ufwExecutor(r), requireNonEmpty("state"))
	reg.Register("selinux", selinuxExecutor(r), requireNonEmpty("state"))
	reg.Register("iptables", iptablesExecutor(r), requireNonEmpty("target"))
}

func requireFirewalldAttrs(t *task.Task, index int) error {
	if err := requireNonEmpty("zone")(t, index); err != nil {
		return err
	}
	return requireOneOf("service", "port", "rich_rule")(t, index)
}

func authorizedKeyExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	user := t.AttrString("user")
	key := t.AttrString("key")
	if ec.DryRun {
		return task.Result{Changed: true, Data: map[string]interface{}{"would": "add authorized key for " + user}}, nil
	}
	return task.Result{Changed: true, Data: map[string]interface{}{"user": user, "key_fingerprint_len": len(key)}}, nil
}

func sudoersExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	name := t.AttrString("name")
	if ec.DryRun {
		return task.Result{Changed: true, Data: map[string]interface{}{"would": "write sudoers rule " + name}}, nil
	}
	return task.Result{Changed: true, Data: map[string]interface{}{"name": name}}, nil
}

func firewalldExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		zone := t.AttrString("zone")
		state := t.AttrString("state")
		if state == "" {
			state = "enabled"
		}
		op := "add"
		if state == "disabled" {
			op = "remove"
		}
		var spec string
		switch {
		case t.AttrString("service") != "":
			spec = "--" + op + "-service=" + t.AttrString("service")
		case t.AttrString("port") != "":
			spec = "--" + op + "-port=" + t.AttrString("port")
		default:
			spec = "--" + op + "-rich-rule=" + t.AttrString("rich_rule")
		}
		return runCommand(ctx, r, t, ec, fmt.Sprintf("firewalld %s zone=%s", spec, zone), "firewall-cmd", "--zone="+zone, spec, "--permanent")
	}
}

func ufwExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		state := t.AttrString("state")
		port := t.AttrString("port")
		switch state {
		case "enabled":
			return runCommand(ctx, r, t, ec, "enable ufw", "ufw", "--force", "enable")
		case "disabled":
			return runCommand(ctx, r, t, ec, "disable ufw", "ufw", "--force", "disable")
		case "allow":
			return runCommand(ctx, r, t, ec, "allow "+port, "ufw", "allow", port)
		case "deny":
			return runCommand(ctx, r, t, ec, "deny "+port, "ufw", "deny", port)
		default:
			return task.Result{}, fmt.Errorf("unsupported ufw state %q", state)
		}
	}
}

func selinuxExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		state := t.AttrString("state")
		return runCommand(ctx, r, t, ec, "set selinux to "+state, "setenforce", state)
	}
}

func iptablesExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		target := t.AttrString("target")
		chain := t.AttrString("chain")
		if chain == "" {
			chain = "INPUT"
		}
		return runCommand(ctx, r, t, ec, fmt.Sprintf("iptables -A %s -j %s", chain, target), "iptables", "-A", chain, "-j", target)
	}
}
