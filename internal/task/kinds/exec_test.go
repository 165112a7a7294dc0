package kinds

import (
	"context"
	"testing"

	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/internal/task/kinds/runner"
	"github.com/driftless-hq/driftless-sub001/internal/tmplengine"
	"github.com/driftless-hq/driftless-sub001/internal/varctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandExecutor_DispatchesThroughRunner(t *testing.T) {
	fake := &runner.Fake{Result: runner.CommandResult{Stdout: "hi", ExitCode: 0}}
	ec := &task.ExecContext{Vars: varctx.New(nil), Engine: tmplengine.New(nil)}

	exec := commandExecutor(fake)
	res, err := exec(context.Background(), &task.Task{Type: "command", Attrs: map[string]interface{}{"command": "echo hi"}}, ec)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "hi", res.Data["stdout"])
	require.Len(t, fake.Calls, 1)
	assert.Equal(t, "echo", fake.Calls[0].Name)
	assert.Equal(t, []string{"hi"}, fake.Calls[0].Args)
}

func TestCommandExecutor_DryRunDoesNotDispatch(t *testing.T) {
	fake := &runner.Fake{}
	ec := &task.ExecContext{Vars: varctx.New(nil), Engine: tmplengine.New(nil), DryRun: true}

	exec := commandExecutor(fake)
	res, err := exec(context.Background(), &task.Task{Type: "command", Attrs: map[string]interface{}{"command": "echo hi"}}, ec)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Empty(t, fake.Calls)
}
