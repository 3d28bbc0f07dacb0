package config

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	ErrInvalidPort       = errors.New("server.port must be between 1 and 65535")
	ErrInvalidLogService = errors.New("log_service.base_url must be an absolute http(s) URL")
)

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w (got %d)", ErrInvalidPort, c.Server.Port)
	}

	u, err := url.Parse(c.LogService.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w (got %q)", ErrInvalidLogService, c.LogService.BaseURL)
	}

	if c.Logging.Output.File.Enabled && c.Logging.Output.File.Path == "" {
		return errors.New("logging.output.file.path is required when file logging is enabled")
	}
	if c.Logging.Output.Loki.Enabled && c.Logging.Output.Loki.Endpoint == "" {
		return errors.New("logging.output.loki.endpoint is required when loki logging is enabled")
	}

	return nil
}
