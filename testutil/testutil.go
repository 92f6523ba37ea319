// Package testutil holds helpers shared by tapview's package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Isolate points every tapview lookup location at a fresh temporary
// directory and clears the environment overrides, so tests never read the
// developer's own configuration. It returns the temporary config home.
func Isolate(t *testing.T) string {
	t.Helper()

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("TAPVIEW_HOME", "")
	t.Setenv("TAPVIEW_SERVER", "")
	t.Setenv("TAPVIEW_THEME", "")
	t.Setenv("NO_COLOR", "1")
	return configHome
}

// WriteFile creates path, and any missing parent directories, with content.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
