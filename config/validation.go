package config

import (
	"net/url"
	"path/filepath"

	"github.com/grovetools/tapview/errors"
)

// Validate checks the semantic constraints the schema cannot express.
// It expects SetDefaults to have been applied.
func (c *Config) Validate() error {
	if c.Server.Socket != "" {
		if !filepath.IsAbs(c.Server.Socket) {
			return errors.New(errors.ErrCodeConfigValidation, "server.socket must be an absolute path").
				WithDetail("socket", c.Server.Socket)
		}
	} else {
		u, err := url.Parse(c.Server.URL)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, "server.url is not a valid URL").
				WithDetail("url", c.Server.URL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.New(errors.ErrCodeConfigValidation, "server.url must use http or https").
				WithDetail("url", c.Server.URL)
		}
		if u.Host == "" {
			return errors.New(errors.ErrCodeConfigValidation, "server.url has no host").
				WithDetail("url", c.Server.URL)
		}
	}

	timeout, err := c.Server.TimeoutDuration()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "server.timeout is invalid")
	}
	if timeout < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "server.timeout must not be negative")
	}

	return nil
}
