package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tapview/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStandardCommandFlags(t *testing.T) {
	cmd := NewStandardCommand("tapctl", "test")
	for _, name := range []string{"verbose", "json", "config", "server"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
	assert.Equal(t, "c", cmd.PersistentFlags().Lookup("config").Shorthand)
}

func TestGetOptions(t *testing.T) {
	cmd := NewStandardCommand("tapctl", "test")
	require.NoError(t, cmd.ParseFlags([]string{"--json", "-v", "--server", "http://a:1", "-c", "x.yml"}))

	opts := GetOptions(cmd)
	assert.Equal(t, CommandOptions{
		ConfigFile: "x.yml",
		Server:     "http://a:1",
		Verbose:    true,
		JSONOutput: true,
	}, opts)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapview.yml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  url: http://file:1\n"), 0o644))

	cfg, err := LoadConfig(CommandOptions{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, "http://file:1", cfg.Server.URL)
	assert.Equal(t, "table", cfg.Output.Format)

	cfg, err = LoadConfig(CommandOptions{ConfigFile: path, Server: "/run/tap.sock", JSONOutput: true})
	require.NoError(t, err)
	assert.Equal(t, "/run/tap.sock", cfg.Server.Socket)
	assert.Empty(t, cfg.Server.URL)
	assert.Equal(t, "json", cfg.Output.Format)

	_, err = LoadConfig(CommandOptions{ConfigFile: path, Server: "ftp://nope"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigValidation, errors.GetCode(err))

	_, err = LoadConfig(CommandOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yml")})
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestVersionCommand(t *testing.T) {
	root := NewStandardCommand("tapctl", "test")
	root.AddCommand(NewVersionCommand("tapctl"))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())

	var info map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "goVersion")

	// Flag values persist across executions, so use a fresh tree
	root = NewStandardCommand("tapctl", "test")
	root.AddCommand(NewVersionCommand("tapctl"))
	out.Reset()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "tapctl ")
}

func TestRenderHelp(t *testing.T) {
	root := NewStandardCommand("tapctl", "Inspect captured traffic")
	root.AddCommand(&cobra.Command{Use: "status", Short: "Show backend statistics", Run: func(*cobra.Command, []string) {}})

	var out bytes.Buffer
	renderHelp(&out, root, 60)
	help := out.String()

	for _, want := range []string{"TAPCTL", "Inspect captured traffic", "COMMANDS", "status", "FLAGS", "--server"} {
		assert.Contains(t, help, want)
	}
}

func TestHelpColumnsWrap(t *testing.T) {
	out := columns([]entry{
		{"status", "Show backend statistics"},
		{"pcap-over-ip", "Manage the remote capture sources the backend pulls packets from"},
	}, lipgloss.NewStyle(), 50)

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 2, "long text wraps onto extra lines")
	assert.True(t, strings.HasPrefix(lines[0], "status"))
	assert.Equal(t, strings.Index(lines[0], "Show"), strings.Index(lines[1], "Manage"), "text columns line up")
}
