package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/shinnycodez/Hiba/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Redis backs both storage tiers; the tiers live in separate logical
	// databases so the session tier can expire independently.
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass      string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDurableDB int    `env:"REDIS_DURABLE_DB" envDefault:"0"`
	RedisSessionDB int    `env:"REDIS_SESSION_DB" envDefault:"1"`

	// SessionTTL is how long session-tier values live, in hours.
	SessionTTL int `env:"SESSION_TTL_HOURS" envDefault:"24"`

	// CatalogTTL is the catalog cache freshness window, in minutes.
	CatalogTTL int `env:"CATALOG_TTL_MINUTES" envDefault:"30"`

	// PostgreSQL (the product document store)
	PostgresHost    string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort    int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser    string `env:"POSTGRES_USER" envDefault:"hiba"`
	PostgresPass    string `env:"POSTGRES_PASSWORD" envDefault:"hiba_secret"`
	PostgresDB      string `env:"POSTGRES_DB" envDefault:"hiba"`
	PostgresSSLMode string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SessionTTLDuration returns the session tier lifetime.
func (c *Config) SessionTTLDuration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Hour
}

// CatalogTTLDuration returns the catalog cache freshness window.
func (c *Config) CatalogTTLDuration() time.Duration {
	return time.Duration(c.CatalogTTL) * time.Minute
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.RedisDurableDB == c.RedisSessionDB {
		return fmt.Errorf("durable and session tiers must use distinct redis databases (both %d)", c.RedisDurableDB)
	}
	if c.SessionTTL < 1 {
		return fmt.Errorf("session TTL must be at least one hour: %d", c.SessionTTL)
	}
	if c.CatalogTTL < 1 {
		return fmt.Errorf("catalog TTL must be at least one minute: %d", c.CatalogTTL)
	}
	return nil
}
