package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config is the tapctl client configuration.
type Config struct {
	Version string       `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty" jsonschema:"description=Configuration version (e.g. '1.0')"`
	Server  ServerConfig `yaml:"server" toml:"server" json:"server" jsonschema:"description=How to reach the traffic analysis backend"`
	Output  OutputConfig `yaml:"output" toml:"output" json:"output" jsonschema:"description=How results are rendered"`

	// Extensions captures all other top-level keys (e.g. "logging").
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`
}

// ServerConfig describes the backend endpoint.
type ServerConfig struct {
	URL       string `yaml:"url,omitempty" toml:"url,omitempty" json:"url,omitempty" jsonschema:"description=Base URL of the backend (http or https)"`
	Socket    string `yaml:"socket,omitempty" toml:"socket,omitempty" json:"socket,omitempty" jsonschema:"description=Unix socket of the backend; takes precedence over url"`
	Timeout   string `yaml:"timeout,omitempty" toml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"description=Per-request timeout (e.g. 30s)"`
	UserAgent string `yaml:"user_agent,omitempty" toml:"user_agent,omitempty" json:"user_agent,omitempty" jsonschema:"description=User-Agent header sent to the backend"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	Format string `yaml:"format,omitempty" toml:"format,omitempty" json:"format,omitempty" jsonschema:"enum=table,enum=json,description=Default output format"`
	Color  string `yaml:"color,omitempty" toml:"color,omitempty" json:"color,omitempty" jsonschema:"enum=auto,enum=always,enum=never,description=When to use colors"`
}

const (
	DefaultServerURL = "http://localhost:8080"
	DefaultTimeout   = "30s"
	DefaultFormat    = "table"
	DefaultColor     = "auto"
)

// SetDefaults fills every unset field with its default value.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Server.URL == "" && c.Server.Socket == "" {
		c.Server.URL = DefaultServerURL
	}
	if c.Server.Timeout == "" {
		c.Server.Timeout = DefaultTimeout
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultFormat
	}
	if c.Output.Color == "" {
		c.Output.Color = DefaultColor
	}
}

// TimeoutDuration returns the parsed request timeout, or zero if unset.
func (s ServerConfig) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s.Timeout, err)
	}
	return d, nil
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded file into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
