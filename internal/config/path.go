// Package config loads and expands application configuration values.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a configured file path for use: a leading ~ becomes
// the user's home directory, then $VAR environment references are expanded.
// Unresolvable parts are left as-is rather than failing, so callers get a
// best-effort path either way.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
