package kinds

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/internal/tmplengine"
	"github.com/driftless-hq/driftless-sub001/internal/varctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileTestEC(t *testing.T, dryRun bool) *task.ExecContext {
	return &task.ExecContext{
		Vars:   varctx.New(nil),
		Engine: tmplengine.New(nil),
		DryRun: dryRun,
	}
}

func TestFileExecutor_CreatesMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "touched")
	ec := newFileTestEC(t, false)

	res, err := fileExecutor(context.Background(), &task.Task{Type: "file", Attrs: map[string]interface{}{"path": path}}, ec)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestFileExecutor_IsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "touched")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	ec := newFileTestEC(t, false)

	res, err := fileExecutor(context.Background(), &task.Task{Type: "file", Attrs: map[string]interface{}{"path": path}}, ec)
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestFileExecutor_DryRunDoesNotTouchDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "touched")
	ec := newFileTestEC(t, true)

	res, err := fileExecutor(context.Background(), &task.Task{Type: "file", Attrs: map[string]interface{}{"path": path}}, ec)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileExecutor_AbsentRemoves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "touched")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	ec := newFileTestEC(t, false)

	res, err := fileExecutor(context.Background(), &task.Task{Type: "file", Attrs: map[string]interface{}{"path": path, "state": "absent"}}, ec)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDirectoryExecutor_CreatesNestedPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "c")
	ec := newFileTestEC(t, false)

	res, err := directoryExecutor(context.Background(), &task.Task{Type: "directory", Attrs: map[string]interface{}{"path": path}}, ec)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestCopyExecutor_SkipsWhenContentMatches(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "dest")
	require.NoError(t, os.WriteFile(src, []byte("same"), 0644))
	require.NoError(t, os.WriteFile(dest, []byte("same"), 0644))
	ec := newFileTestEC(t, false)

	res, err := copyExecutor(context.Background(), &task.Task{Type: "copy", Attrs: map[string]interface{}{"src": src, "dest": dest}}, ec)
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestStatExecutor_ReportsExistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	ec := newFileTestEC(t, false)

	res, err := statExecutor(context.Background(), &task.Task{Type: "stat", Attrs: map[string]interface{}{"path": path}}, ec)
	require.NoError(t, err)
	assert.Equal(t, true, res.Data["exists"])
	assert.Equal(t, true, res.Data["is_file"])
	assert.Equal(t, false, res.Data["is_dir"])
}

func TestStatExecutor_ComputesChecksumWhenRequested(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))
	ec := newFileTestEC(t, false)

	res, err := statExecutor(context.Background(), &task.Task{Type: "stat", Attrs: map[string]interface{}{"path": path, "checksum": "sha256"}}, ec)
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", res.Data["checksum"])
}
