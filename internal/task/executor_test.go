package task

import (
	"context"
	"testing"

	"github.com/driftless-hq/driftless-sub001/internal/tmplengine"
	"github.com/driftless-hq/driftless-sub001/internal/varctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEC(vars map[string]interface{}) *ExecContext {
	reg := NewRegistry()
	RegisterFlowControlKinds(reg)
	reg.Register("set_value", func(ctx context.Context, t *Task, ec *ExecContext) (Result, error) {
		return Result{Changed: true, Data: map[string]interface{}{"ok": true}}, nil
	}, nil)
	reg.Register("noop", func(ctx context.Context, t *Task, ec *ExecContext) (Result, error) {
		return Result{Changed: false}, nil
	}, nil)

	return &ExecContext{
		Vars:     varctx.New(vars),
		Engine:   tmplengine.New(nil),
		Registry: reg,
	}
}

func TestRun_SkipsWhenFalse(t *testing.T) {
	ec := newTestEC(nil)
	results, err := Run(context.Background(), []Task{
		{Type: "set_value", When: "eq 1 2"},
	}, ec)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, OutcomeSkipped, results[0].Outcome)
}

func TestRun_RunsWhenTrue(t *testing.T) {
	ec := newTestEC(nil)
	results, err := Run(context.Background(), []Task{
		{Type: "set_value", When: "eq 1 1"},
	}, ec)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, OutcomeChanged, results[0].Outcome)
}

func TestRun_RegisterBindsResultIntoVars(t *testing.T) {
	ec := newTestEC(nil)
	_, err := Run(context.Background(), []Task{
		{Type: "set_value", Register: "result"},
	}, ec)
	require.NoError(t, err)

	bound, ok := ec.Vars.Get("result")
	require.True(t, ok)
	m := bound.(map[string]interface{})
	assert.Equal(t, true, m["ok"])
}

func TestRun_AbortsOnFailureWithoutIgnoreErrors(t *testing.T) {
	ec := newTestEC(nil)
	reg := ec.Registry
	reg.Register("boom", func(ctx context.Context, t *Task, ec *ExecContext) (Result, error) {
		return Result{}, assertErr("kaboom")
	}, nil)

	results, err := Run(context.Background(), []Task{
		{Type: "boom"},
		{Type: "noop"},
	}, ec)
	assert.Error(t, err)
	assert.Len(t, results, 1, "the task after the failure must not run")
}

func TestRun_ContinuesOnFailureWithIgnoreErrors(t *testing.T) {
	ec := newTestEC(nil)
	reg := ec.Registry
	reg.Register("boom", func(ctx context.Context, t *Task, ec *ExecContext) (Result, error) {
		return Result{}, assertErr("kaboom")
	}, nil)

	results, err := Run(context.Background(), []Task{
		{Type: "boom", IgnoreErrors: true},
		{Type: "noop"},
	}, ec)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, OutcomeIgnoredFailure, results[0].Outcome)
}

func TestRun_ExpandsLoop(t *testing.T) {
	ec := newTestEC(nil)
	results, err := Run(context.Background(), []Task{
		{Type: "set_value", Loop: []interface{}{"a", "b", "c"}},
	}, ec)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
