package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ExpandHome expands a leading ~ or ~/ prefix to the user's home directory.
// Paths without the prefix are returned unchanged.
func ExpandHome(path string) string {
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	return path
}

// WithinHome reports whether path resolves to a location inside the user's
// home directory. The check walks path components via filepath.Rel rather
// than comparing string prefixes, so /home/userX does not pass for a home
// of /home/user.
func WithinHome(path string) bool {
	home, err := filepath.Abs(HomeDir())
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(home, abs)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// OpenCodeConfigPath returns the default OpenCode config directory
func OpenCodeConfigPath() string {
	return filepath.Join(HomeDir(), ".config", "opencode")
}

// CodexConfigPath returns the default Codex config directory
func CodexConfigPath() string {
	return filepath.Join(HomeDir(), ".codex")
}

// RingportConfigPath returns the ringport config directory
func RingportConfigPath() string {
	return filepath.Join(HomeDir(), ".config", "ringport")
}
