package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return dir
}

func TestReadConfig_Defaults(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.LogService.BaseURL != "http://localhost:5000" {
		t.Errorf("unexpected log service url %q", cfg.LogService.BaseURL)
	}
	if cfg.Clinician.Name != "Dr. Sarah Miller" {
		t.Errorf("unexpected clinician %q", cfg.Clinician.Name)
	}
}

func TestReadConfig_File(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9090
  environment: production
log_service:
  base_url: https://logs.example.com
  timeout_seconds: 3
clinician:
  name: Dr. Ada Park
`)

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Environment != "production" {
		t.Errorf("expected production, got %q", cfg.Server.Environment)
	}
	if cfg.LogService.TimeoutSeconds != 3 {
		t.Errorf("expected timeout 3, got %d", cfg.LogService.TimeoutSeconds)
	}
	if cfg.Clinician.Name != "Dr. Ada Park" {
		t.Errorf("unexpected clinician %q", cfg.Clinician.Name)
	}
}

func TestReadConfig_EnvOverride(t *testing.T) {
	t.Setenv("PULSEDESK_LOG_SERVICE_BASE_URL", "http://conversations.internal:7000")

	cfg, err := ReadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if cfg.LogService.BaseURL != "http://conversations.internal:7000" {
		t.Errorf("env override not applied, got %q", cfg.LogService.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: ErrInvalidPort,
		},
		{
			name:    "relative log service url",
			mutate:  func(c *Config) { c.LogService.BaseURL = "/log" },
			wantErr: ErrInvalidLogService,
		},
		{
			name:    "non http scheme",
			mutate:  func(c *Config) { c.LogService.BaseURL = "ftp://logs" },
			wantErr: ErrInvalidLogService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:     ServerConfig{Port: 8080},
				LogService: LogServiceConfig{BaseURL: "http://localhost:5000"},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
