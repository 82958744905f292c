// Package config loads runtime settings from the environment, with an
// optional .env file for development setups. Command line flags take
// precedence over everything here.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	// Addr is the address the HTTP server listens on.
	Addr string `env:"RELIST_ADDR" envDefault:":8080"`

	// DBPath is the path to the SQLite database file.
	DBPath string `env:"RELIST_DB" envDefault:"relist.db"`

	// LogPath is an optional file to mirror log output to.
	LogPath string `env:"RELIST_LOG"`
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
