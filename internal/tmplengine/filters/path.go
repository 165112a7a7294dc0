package filters

import (
	"os"
	"path/filepath"
	"strings"
)

// Expanduser expands a leading "~" to the invoking user's home directory,
// grounded on original_source's "expanduser" path filter.
func Expanduser(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Realpath resolves path to its absolute, symlink-resolved form.
func Realpath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// PathJoin joins path elements with the OS separator.
func PathJoin(elems ...string) string {
	return filepath.Join(elems...)
}

// PathExists reports whether path exists on disk.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// PathFuncMap returns the path-domain filters/functions for registration
// with the template engine.
func PathFuncMap() map[string]interface{} {
	return map[string]interface{}{
		"expanduser":  Expanduser,
		"realpath":    Realpath,
		"path_join":   PathJoin,
		"path_exists": PathExists,
		"basename":    filepath.Base,
		"dirname":     filepath.Dir,
	}
}
