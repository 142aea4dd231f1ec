// Package config parses process environment variables into tagged structs.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from the environment using `env` struct tags.
//
// Example:
//
//	type Config struct {
//	    RedisAddr  string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
//	    CatalogTTL int    `env:"CATALOG_TTL_MINUTES" envDefault:"30"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
