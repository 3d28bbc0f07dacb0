package logservice

import (
	"time"

	"github.com/pulseai/pulsedesk/config"
	"github.com/pulseai/pulsedesk/pkg/constants"
)

type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// DefaultConfig returns the local development endpoint.
func DefaultConfig() Config {
	return Config{
		BaseURL:        constants.DefaultLogServiceURL,
		TimeoutSeconds: 10,
	}
}

// Timeout returns the per-request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// FromCentralConfig converts central config.LogServiceConfig to package Config
func FromCentralConfig(c config.LogServiceConfig) Config {
	cfg := Config{BaseURL: c.BaseURL, TimeoutSeconds: c.TimeoutSeconds}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	return cfg
}
