package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Notify    NotifyConfig    `yaml:"notify"`
	Sweep     SweepConfig     `yaml:"sweep"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

// SweepConfig controls the missed-workout sweep. Schedule is a cron spec;
// empty means @daily.
type SweepConfig struct {
	Schedule string `yaml:"schedule"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// CronSchedule returns the sweep schedule, defaulting to daily.
func (s SweepConfig) CronSchedule() string {
	if s.Schedule == "" {
		return "@daily"
	}
	return s.Schedule
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix REPCYCLE_ and underscore-separated paths:
//
//	REPCYCLE_SERVER_HOST, REPCYCLE_SERVER_PORT,
//	REPCYCLE_DB_HOST, REPCYCLE_DB_PORT, REPCYCLE_DB_NAME,
//	REPCYCLE_DB_USER, REPCYCLE_DB_PASSWORD, REPCYCLE_DB_SSLMODE,
//	REPCYCLE_AUTH_API_KEY, REPCYCLE_TS_HOSTNAME, REPCYCLE_TS_STATE_DIR,
//	REPCYCLE_NOTIFY_WEBHOOK_URL, REPCYCLE_SWEEP_SCHEDULE
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPCYCLE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPCYCLE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPCYCLE_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("REPCYCLE_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("REPCYCLE_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REPCYCLE_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("REPCYCLE_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REPCYCLE_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("REPCYCLE_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("REPCYCLE_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
		cfg.Tailscale.Enabled = true
	}
	if v := os.Getenv("REPCYCLE_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("REPCYCLE_NOTIFY_WEBHOOK_URL"); v != "" {
		cfg.Notify.WebhookURL = v
	}
	if v := os.Getenv("REPCYCLE_SWEEP_SCHEDULE"); v != "" {
		cfg.Sweep.Schedule = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
