// Package config loads server configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all tunables for the SocietyHub server.
type Config struct {
	ListenPort int    `yaml:"listenPort" envconfig:"LISTEN_PORT"`
	DBPath     string `yaml:"dbPath"     envconfig:"DB_PATH"`

	JWTSecret      string `yaml:"jwtSecret"      envconfig:"JWT_SECRET"`
	JWTTTLHours    int    `yaml:"jwtTtlHours"    envconfig:"JWT_TTL_HOURS"`
	PrivilegedRole string `yaml:"privilegedRole" envconfig:"PRIVILEGED_ROLE"`

	SMTP SMTPConfig `yaml:"smtp"`
}

// SMTPConfig configures the outbound mail provider.
type SMTPConfig struct {
	Host     string `yaml:"host"     envconfig:"SMTP_HOST"`
	Port     int    `yaml:"port"     envconfig:"SMTP_PORT"`
	Username string `yaml:"username" envconfig:"SMTP_USERNAME"`
	Password string `yaml:"password" envconfig:"SMTP_PASSWORD"`
	// From is the fixed sender identity for all portal mail.
	From string `yaml:"from" envconfig:"SMTP_FROM"`
	// ReplyTo defaults to From when empty.
	ReplyTo string `yaml:"replyTo" envconfig:"SMTP_REPLY_TO"`
}

// Load reads the YAML file at path (if path is non-empty), then applies
// environment overrides. Missing file with empty path is not an error:
// env-only configuration is the common deployment mode.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := envconfig.Process("societyhub", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ListenPort:     8080,
		DBPath:         "./data/societyhub.db",
		JWTTTLHours:    24,
		PrivilegedRole: "treasurer",
		SMTP: SMTPConfig{
			Port: 587,
			From: "Prestige Bella Vista <pbv.mc.2527@gmail.com>",
		},
	}
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwtSecret is required (set JWT_SECRET)")
	}
	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return fmt.Errorf("invalid listenPort %d", c.ListenPort)
	}
	return nil
}
