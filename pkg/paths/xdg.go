// Package paths resolves where tapview keeps its files.
//
// Resolution order:
// 1. TAPVIEW_HOME (portable root) → $TAPVIEW_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/tapview
// 3. Platform defaults → ~/.config/tapview, ~/.local/state/tapview
package paths

import (
	"os"
	"path/filepath"
)

// EnvHome relocates every tapview directory under one root.
const EnvHome = "TAPVIEW_HOME"

const appName = "tapview"

// base picks the root for one kind of directory. sub is used below
// TAPVIEW_HOME, xdgVar names the XDG override and fallback is relative to the
// user's home directory.
func base(sub, xdgVar string, fallback ...string) string {
	if home := os.Getenv(EnvHome); home != "" {
		return filepath.Join(home, sub)
	}
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, appName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append(append([]string{homeDir}, fallback...), appName)...)
}

// ConfigDir returns the directory holding the global tapview.yml.
func ConfigDir() string {
	return base("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the directory for logs and other runtime output.
func StateDir() string {
	return base("state", "XDG_STATE_HOME", ".local", "state")
}

// ConfigFile returns the path of the global configuration file, or "" when
// no home directory can be determined.
func ConfigFile() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "tapview.yml")
}

// LogFile returns the default location of the file log sink.
func LogFile() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "logs", "tapctl.log")
}
