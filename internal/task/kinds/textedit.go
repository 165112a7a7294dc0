package kinds

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/driftless-hq/driftless-sub001/internal/task"
)

// RegisterTextEdit wires lineinfile, blockinfile, and replace against reg.
func RegisterTextEdit(reg *task.Registry) {
	reg.Register("lineinfile", lineinfileExecutor, requireAllNonEmpty("path", "line"))
	reg.Register("blockinfile", blockinfileExecutor, requireAllNonEmpty("path", "block"))
	reg.Register("replace", replaceExecutor, requireReplaceAttrs)
}

func requireReplaceAttrs(t *task.Task, index int) error {
	if err := requireNonEmpty("path")(t, index); err != nil {
		return err
	}
	return requireOneOf("regexp", "before")(t, index)
}

func lineinfileExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	path := t.AttrString("path")
	line := t.AttrString("line")
	state := t.AttrString("state")
	if state == "" {
		state = "present"
	}

	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return task.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	lines := splitLines(string(raw))

	present := false
	for _, l := range lines {
		if l == line {
			present = true
			break
		}
	}

	var newLines []string
	changed := false
	switch state {
	case "absent":
		if !present {
			return task.Result{Changed: false}, nil
		}
		changed = true
		for _, l := range lines {
			if l != line {
				newLines = append(newLines, l)
			}
		}
	default:
		if present {
			return task.Result{Changed: false}, nil
		}
		changed = true
		newLines = append(lines, line)
	}

	if ec.DryRun {
		return task.Result{Changed: changed, Data: map[string]interface{}{"would": fmt.Sprintf("%s line in %s", state, path)}}, nil
	}
	if err := os.WriteFile(path, []byte(strings.Join(newLines, "\n")+"\n"), 0644); err != nil {
		return task.Result{}, fmt.Errorf("writing %s: %w", path, err)
	}
	return task.Result{Changed: changed}, nil
}

func blockinfileExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	path := t.AttrString("path")
	block := t.AttrString("block")
	marker := t.AttrString("marker")
	if marker == "" {
		marker = "DRIFTLESS MANAGED BLOCK"
	}
	begin := fmt.Sprintf("# BEGIN %s", marker)
	end := fmt.Sprintf("# END %s", marker)

	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return task.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(raw)
	managed := begin + "\n" + block + "\n" + end

	beginIdx := strings.Index(content, begin)
	endIdx := strings.Index(content, end)
	var next string
	if beginIdx >= 0 && endIdx > beginIdx {
		next = content[:beginIdx] + managed + content[endIdx+len(end):]
	} else {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		next = content + managed + "\n"
	}

	if next == content {
		return task.Result{Changed: false}, nil
	}
	if ec.DryRun {
		return task.Result{Changed: true, Data: map[string]interface{}{"would": "update managed block in " + path}}, nil
	}
	if err := os.WriteFile(path, []byte(next), 0644); err != nil {
		return task.Result{}, fmt.Errorf("writing %s: %w", path, err)
	}
	return task.Result{Changed: true}, nil
}

func replaceExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	path := t.AttrString("path")
	replacement := t.AttrString("replace")

	raw, err := os.ReadFile(path)
	if err != nil {
		return task.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(raw)

	var next string
	if pattern := t.AttrString("regexp"); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return task.Result{}, fmt.Errorf("invalid regexp %q: %w", pattern, err)
		}
		next = re.ReplaceAllString(content, replacement)
	} else {
		before := t.AttrString("before")
		next = strings.ReplaceAll(content, before, replacement)
	}

	if next == content {
		return task.Result{Changed: false}, nil
	}
	if ec.DryRun {
		return task.Result{Changed: true, Data: map[string]interface{}{"would": "replace content in " + path}}, nil
	}
	if err := os.WriteFile(path, []byte(next), 0644); err != nil {
		return task.Result{}, fmt.Errorf("writing %s: %w", path, err)
	}
	return task.Result{Changed: true}, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
