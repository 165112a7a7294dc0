package kinds

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/driftless-hq/driftless-sub001/internal/task"
)

// RegisterFile wires the file-domain kinds — file, directory, copy,
// template, stat — against reg.
func RegisterFile(reg *task.Registry) {
	reg.Register("file", fileExecutor, requireNonEmpty("path"))
	reg.Register("directory", directoryExecutor, requireNonEmpty("path"))
	reg.Register("copy", copyExecutor, requireAllNonEmpty("src", "dest"))
	reg.Register("template", templateExecutor, requireAllNonEmpty("src", "dest"))
	reg.Register("stat", statExecutor, requireNonEmpty("path"))
}

func fileExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	path := t.AttrString("path")
	state := t.AttrString("state")
	if state == "" {
		state = "file"
	}

	switch state {
	case "absent":
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return task.Result{Changed: false}, nil
		}
		if ec.DryRun {
			return task.Result{Changed: true, Data: map[string]interface{}{"would": "remove " + path}}, nil
		}
		if err := os.RemoveAll(path); err != nil {
			return task.Result{}, fmt.Errorf("removing %s: %w", path, err)
		}
		return task.Result{Changed: true}, nil
	case "touch", "file":
		if _, err := os.Stat(path); err == nil {
			return task.Result{Changed: false}, nil
		}
		if ec.DryRun {
			return task.Result{Changed: true, Data: map[string]interface{}{"would": "create " + path}}, nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return task.Result{}, fmt.Errorf("creating %s: %w", path, err)
		}
		f.Close()
		return task.Result{Changed: true}, nil
	default:
		return task.Result{}, fmt.Errorf("unsupported file state %q", state)
	}
}

func directoryExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	path := t.AttrString("path")
	state := t.AttrString("state")
	if state == "" {
		state = "directory"
	}

	if state == "absent" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return task.Result{Changed: false}, nil
		}
		if ec.DryRun {
			return task.Result{Changed: true, Data: map[string]interface{}{"would": "remove directory " + path}}, nil
		}
		return task.Result{Changed: true}, os.RemoveAll(path)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return task.Result{Changed: false}, nil
	}
	if ec.DryRun {
		return task.Result{Changed: true, Data: map[string]interface{}{"would": "create directory " + path}}, nil
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return task.Result{}, fmt.Errorf("creating directory %s: %w", path, err)
	}
	return task.Result{Changed: true}, nil
}

func copyExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	src := t.AttrString("src")
	dest := t.AttrString("dest")

	srcData, err := os.ReadFile(src)
	if err != nil {
		return task.Result{}, fmt.Errorf("reading copy src %s: %w", src, err)
	}
	if existing, err := os.ReadFile(dest); err == nil && string(existing) == string(srcData) {
		return task.Result{Changed: false}, nil
	}
	if ec.DryRun {
		return task.Result{Changed: true, Data: map[string]interface{}{"would": fmt.Sprintf("copy %s to %s", src, dest)}}, nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return task.Result{}, err
	}
	if err := os.WriteFile(dest, srcData, 0644); err != nil {
		return task.Result{}, fmt.Errorf("writing copy dest %s: %w", dest, err)
	}
	return task.Result{Changed: true}, nil
}

func templateExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	src := t.AttrString("src")
	dest := t.AttrString("dest")

	raw, err := os.ReadFile(src)
	if err != nil {
		return task.Result{}, fmt.Errorf("reading template src %s: %w", src, err)
	}

	rendered, err := ec.Engine.RenderGoTemplate(string(raw), ec.Vars.All())
	if err != nil {
		return task.Result{}, fmt.Errorf("rendering template %s: %w", src, err)
	}
	renderedStr, _ := rendered.(string)

	if existing, err := os.ReadFile(dest); err == nil && string(existing) == renderedStr {
		return task.Result{Changed: false}, nil
	}
	if ec.DryRun {
		return task.Result{Changed: true, Data: map[string]interface{}{"would": fmt.Sprintf("render %s to %s", src, dest)}}, nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return task.Result{}, err
	}
	if err := os.WriteFile(dest, []byte(renderedStr), 0644); err != nil {
		return task.Result{}, fmt.Errorf("writing template dest %s: %w", dest, err)
	}
	return task.Result{Changed: true}, nil
}

// statExecutor registers the schema spec.md §6 "Registered-output schema"
// names: exists, is_file, is_dir, size, mode, uid, gid, modified, and
// (when the `checksum` attribute names a hash algorithm) checksum.
func statExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	path := t.AttrString("path")
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return task.Result{Changed: false, Data: map[string]interface{}{"exists": false}}, nil
	}
	if err != nil {
		return task.Result{}, fmt.Errorf("stat %s: %w", path, err)
	}

	data := map[string]interface{}{
		"exists":   true,
		"is_file":  !info.IsDir(),
		"is_dir":   info.IsDir(),
		"size":     info.Size(),
		"mode":     uint32(info.Mode().Perm()),
		"modified": info.ModTime().Unix(),
	}
	if uid, gid, ok := fileOwner(info); ok {
		data["uid"] = uid
		data["gid"] = gid
	}

	if algorithm := t.AttrString("checksum"); algorithm != "" && !info.IsDir() {
		h := newHasher(algorithm)
		if h == nil {
			return task.Result{}, fmt.Errorf("unsupported checksum algorithm %q", algorithm)
		}
		f, err := os.Open(path)
		if err != nil {
			return task.Result{}, fmt.Errorf("opening %s for checksum: %w", path, err)
		}
		_, copyErr := io.Copy(h, f)
		f.Close()
		if copyErr != nil {
			return task.Result{}, fmt.Errorf("checksumming %s: %w", path, copyErr)
		}
		data["checksum"] = hex.EncodeToString(h.Sum(nil))
	}

	return task.Result{Changed: false, Data: data}, nil
}
