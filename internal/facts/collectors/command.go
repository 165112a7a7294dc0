package collectors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/driftless-hq/driftless-sub001/internal/facts"
)

// CommandCollector runs Options["command"] through a shell and parses its
// stdout according to Options["format"] ("text" | "json" | "key_value"),
// as spec.md §4.3's custom-shell collector describes.
func CommandCollector(ctx context.Context, cfg facts.CollectorConfig) (map[string]interface{}, error) {
	command, _ := cfg.Options["command"].(string)
	if command == "" {
		return nil, fmt.Errorf("command collector %q requires a non-empty command", cfg.Name)
	}
	format, _ := cfg.Options["format"].(string)
	if format == "" {
		format = "text"
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running command collector %q: %w", cfg.Name, err)
	}

	return parseCommandOutput(out.String(), format)
}

func parseCommandOutput(output, format string) (map[string]interface{}, error) {
	switch format {
	case "json":
		var v map[string]interface{}
		if err := json.Unmarshal([]byte(output), &v); err != nil {
			return nil, fmt.Errorf("parsing command output as json: %w", err)
		}
		return v, nil
	case "key_value":
		out := map[string]interface{}{}
		for _, line := range strings.Split(output, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}
			out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
		return out, nil
	default:
		return map[string]interface{}{"output": strings.TrimRight(output, "\n")}, nil
	}
}
