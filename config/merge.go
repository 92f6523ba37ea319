package config

// mergeConfigs merges override configuration into base
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	// A socket or URL in the override replaces the whole endpoint choice
	if override.Server.Socket != "" || override.Server.URL != "" {
		result.Server.Socket = override.Server.Socket
		result.Server.URL = override.Server.URL
	}
	if override.Server.Timeout != "" {
		result.Server.Timeout = override.Server.Timeout
	}
	if override.Server.UserAgent != "" {
		result.Server.UserAgent = override.Server.UserAgent
	}

	if override.Output.Format != "" {
		result.Output.Format = override.Output.Format
	}
	if override.Output.Color != "" {
		result.Output.Color = override.Output.Color
	}

	// Merge extensions one top-level key at a time
	if len(override.Extensions) > 0 {
		merged := make(map[string]interface{}, len(base.Extensions)+len(override.Extensions))
		for k, v := range base.Extensions {
			merged[k] = v
		}
		for k, v := range override.Extensions {
			merged[k] = v
		}
		result.Extensions = merged
	}

	return &result
}
