package kinds

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/driftless-hq/driftless-sub001/internal/apierr"
	"github.com/driftless-hq/driftless-sub001/internal/task"
)

// RegisterInfo wires debug, assert, fail, wait_for, pause, and set_fact
// against reg. fail/assert are the kinds through which the executor's
// abort-the-run behavior (spec.md §4.2) is reached: they simply return an
// error, and the executor's ignore_errors handling does the rest.
func RegisterInfo(reg *task.Registry) {
	reg.Register("debug", debugExecutor, requireOneOf("msg", "var"))
	reg.Register("assert", assertExecutor, requireNonEmpty("that"))
	reg.Register("fail", failExecutor, requireNonEmpty("msg"))
	reg.Register("wait_for", waitForExecutor, requireAllNonEmpty("host", "port"))
	reg.Register("pause", pauseExecutor, nil)
	reg.Register("set_fact", setFactExecutor, requireNonEmpty("key"))
}

func debugExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	if msg := t.AttrString("msg"); msg != "" {
		return task.Result{Data: map[string]interface{}{"msg": msg}}, nil
	}
	name := t.AttrString("var")
	val, _ := ec.Vars.Get(name)
	return task.Result{Data: map[string]interface{}{name: val}}, nil
}

func assertExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	that := t.AttrString("that")
	result, err := ec.Engine.RenderGoTemplate("{{ "+that+" }}", ec.Vars.All())
	if err != nil {
		return task.Result{}, apierr.Render("task.kinds.assert", that, err)
	}
	ok, _ := result.(bool)
	if !ok {
		msg := t.AttrString("fail_msg")
		if msg == "" {
			msg = fmt.Sprintf("assertion failed: %s", that)
		}
		return task.Result{}, fmt.Errorf("%s", msg)
	}
	return task.Result{}, nil
}

func failExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	return task.Result{}, fmt.Errorf("%s", t.AttrString("msg"))
}

func waitForExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	host := t.AttrString("host")
	port := t.AttrString("port")
	timeout := taskTimeout(t)
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	addr := net.JoinHostPort(host, port)
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
		if err == nil {
			conn.Close()
			return task.Result{}, nil
		}
		if time.Now().After(deadline) {
			return task.Result{}, fmt.Errorf("timed out waiting for %s: %w", addr, err)
		}
		select {
		case <-ctx.Done():
			return task.Result{}, ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
}

func pauseExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	seconds := 1
	if v, ok := t.Attr("seconds"); ok {
		if n, ok := v.(int); ok {
			seconds = n
		}
	}
	select {
	case <-ctx.Done():
		return task.Result{}, ctx.Err()
	case <-time.After(time.Duration(seconds) * time.Second):
	}
	return task.Result{}, nil
}

func setFactExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	key := t.AttrString("key")
	value, _ := t.Attr("value")
	ec.Vars.Set(key, value)
	return task.Result{Data: map[string]interface{}{key: value}}, nil
}
