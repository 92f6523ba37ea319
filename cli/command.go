// Package cli holds the cobra plumbing shared by tapctl's commands.
package cli

import (
	"path/filepath"
	"strings"

	"github.com/grovetools/tapview/config"
	"github.com/grovetools/tapview/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds common options for tapctl commands
type CommandOptions struct {
	ConfigFile string
	Server     string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard tapctl flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to tapview.yml or tapview.toml")
	cmd.PersistentFlags().String("server", "", "Backend URL or absolute Unix socket path (overrides config)")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger returns the CLI logger, raising every logger to debug when
// --verbose is set.
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	entry := logging.NewLogger("tapctl")

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logging.SetLevel(logrus.DebugLevel)
	}

	return entry
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	server, _ := cmd.Flags().GetString("server")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Server:     server,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the configuration named by --config, or the one visible
// from the working directory, and applies --server and --json on top.
func LoadConfig(opts CommandOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigFile != "" {
		cfg, err = config.Load(opts.ConfigFile)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if server := strings.TrimSpace(opts.Server); server != "" {
		if filepath.IsAbs(server) {
			cfg.Server.Socket = server
			cfg.Server.URL = ""
		} else {
			cfg.Server.URL = server
			cfg.Server.Socket = ""
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if opts.JSONOutput {
		cfg.Output.Format = "json"
	}

	return cfg, nil
}
