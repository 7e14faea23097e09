// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultShutdownTimeoutSeconds = 30
	defaultBackendTimeoutSeconds  = 15
	defaultCurrency               = "GHS"
	defaultPhoneRegion            = "GH"
	defaultHealthCheckCron        = "*/1 * * * *"
	defaultImportBurst            = 3
	defaultImportIntervalSeconds  = 20
)

type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	APIToken       string `yaml:"-"` // Loaded from environment
}

// Timeout is applied by the HTTP transport only; the client itself never
// enforces a deadline.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type Config struct {
	App struct {
		Name                   string `yaml:"name"`
		Environment            string `yaml:"environment"`
		Port                   int    `yaml:"port"`
		BaseURL                string `yaml:"base_url"`
		ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
		StaticDir              string `yaml:"static_dir"`
		TrustProxy             bool   `yaml:"trust_proxy"`
	} `yaml:"app"`

	Backend BackendConfig `yaml:"backend"`

	Display struct {
		Currency    string `yaml:"currency"`
		PhoneRegion string `yaml:"phone_region"`
	} `yaml:"display"`

	RateLimit struct {
		ImportBurst           int `yaml:"import_burst"`
		ImportIntervalSeconds int `yaml:"import_interval_seconds"`
	} `yaml:"rate_limit"`

	Scheduler struct {
		HealthCheckCron string `yaml:"health_check_cron"`
	} `yaml:"scheduler"`

	DevAPI struct {
		Port     int            `yaml:"port"`
		Database DatabaseConfig `yaml:"database"`
	} `yaml:"devapi"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.Backend.APIToken = os.Getenv("BACKEND_API_TOKEN")
	if override := strings.TrimSpace(os.Getenv("BACKEND_BASE_URL")); override != "" {
		cfg.Backend.BaseURL = override
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML config bytes and fills defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		c.App.ShutdownTimeoutSeconds = defaultShutdownTimeoutSeconds
	}
	if c.App.StaticDir == "" {
		c.App.StaticDir = "build/bin/static"
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = defaultBackendTimeoutSeconds
	}
	if c.Display.Currency == "" {
		c.Display.Currency = defaultCurrency
	}
	if c.Display.PhoneRegion == "" {
		c.Display.PhoneRegion = defaultPhoneRegion
	}
	if c.RateLimit.ImportBurst <= 0 {
		c.RateLimit.ImportBurst = defaultImportBurst
	}
	if c.RateLimit.ImportIntervalSeconds <= 0 {
		c.RateLimit.ImportIntervalSeconds = defaultImportIntervalSeconds
	}
	if c.Scheduler.HealthCheckCron == "" {
		c.Scheduler.HealthCheckCron = defaultHealthCheckCron
	}
	if c.DevAPI.Database.Driver == "" {
		c.DevAPI.Database.Driver = "sqlite"
	}
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.App.ShutdownTimeoutSeconds) * time.Second
}

// ImportInterval is the sustained gap between FAQ imports for one business.
func (c *Config) ImportInterval() time.Duration {
	return time.Duration(c.RateLimit.ImportIntervalSeconds) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return fmt.Errorf("backend base_url is required")
	}
	parsed, err := url.Parse(c.Backend.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("backend base_url must be an absolute URL")
	}
	if _, err := cron.ParseStandard(c.Scheduler.HealthCheckCron); err != nil {
		return fmt.Errorf("scheduler health_check_cron is invalid: %w", err)
	}

	switch c.DevAPI.Database.Driver {
	case "sqlite":
		if c.DevAPI.Port != 0 && c.DevAPI.Database.Filename == "" {
			return fmt.Errorf("devapi database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported devapi database driver: %s", c.DevAPI.Database.Driver)
	}

	return nil
}
