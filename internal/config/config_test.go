package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validConfig = `app:
  name: "Front Desk"
  environment: "development"
  port: 8080
backend:
  base_url: "http://localhost:8000"
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.Display.Currency != "GHS" {
		t.Fatalf("currency default: %q", cfg.Display.Currency)
	}
	if cfg.Display.PhoneRegion != "GH" {
		t.Fatalf("phone region default: %q", cfg.Display.PhoneRegion)
	}
	if cfg.Backend.Timeout() != 15*time.Second {
		t.Fatalf("backend timeout default: %s", cfg.Backend.Timeout())
	}
	if cfg.ShutdownTimeout() != 30*time.Second {
		t.Fatalf("shutdown timeout default: %s", cfg.ShutdownTimeout())
	}
	if cfg.RateLimit.ImportBurst != 3 || cfg.ImportInterval() != 20*time.Second {
		t.Fatalf("rate limit defaults: burst=%d interval=%s", cfg.RateLimit.ImportBurst, cfg.ImportInterval())
	}
	if cfg.App.TrustProxy {
		t.Fatalf("trust_proxy should default to false")
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development environment")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing name", func(c *Config) { c.App.Name = "" }, "app name is required"},
		{"missing port", func(c *Config) { c.App.Port = 0 }, "app port is required"},
		{"missing backend", func(c *Config) { c.Backend.BaseURL = "" }, "backend base_url is required"},
		{"relative backend", func(c *Config) { c.Backend.BaseURL = "/api" }, "absolute URL"},
		{"bad cron", func(c *Config) { c.Scheduler.HealthCheckCron = "every minute" }, "health_check_cron"},
		{"bad driver", func(c *Config) { c.DevAPI.Database.Driver = "postgres" }, "unsupported devapi database driver"},
		{"devapi without file", func(c *Config) { c.DevAPI.Port = 8000 }, "devapi database filename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(validConfig))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadReadsTokenFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(validConfig), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BACKEND_API_TOKEN", "secret-token")
	t.Setenv("BACKEND_BASE_URL", "http://api.internal:9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.APIToken != "secret-token" {
		t.Fatalf("token not loaded from env")
	}
	if cfg.Backend.BaseURL != "http://api.internal:9000" {
		t.Fatalf("base url override not applied: %s", cfg.Backend.BaseURL)
	}
}
