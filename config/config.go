// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls the outcomed server.
type Config struct {
	Addr            string        `env:"OUTCOME_ADDR"             envDefault:":8080"`
	LogLevel        slog.Level    `env:"OUTCOME_LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"OUTCOME_LOG_FORMAT"       envDefault:"json"`
	DefaultPageSize int           `env:"OUTCOME_DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize     int           `env:"OUTCOME_MAX_PAGE_SIZE"    envDefault:"100"`
	MaxBodySize     int64         `env:"OUTCOME_MAX_BODY_SIZE"    envDefault:"1048576"`
	CORSOrigins     []string      `env:"OUTCOME_CORS_ORIGINS"     envSeparator:","`
	OTelEndpoint    string        `env:"OUTCOME_OTEL_ENDPOINT"`
	ShutdownTimeout time.Duration `env:"OUTCOME_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config and checks it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("config: log format must be json or text, got %q", c.LogFormat)
	}
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("config: default page size must be positive, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("config: max page size %d is below default page size %d", c.MaxPageSize, c.DefaultPageSize)
	}
	if c.MaxBodySize < 0 {
		return fmt.Errorf("config: max body size must not be negative, got %d", c.MaxBodySize)
	}
	return nil
}
