package app

import (
	"errors"
)

// Config holds all the necessary configuration for an App instance to run.
// Non-empty Format and OutDir override the output block of the run
// configuration.
type Config struct {
	ConfigPaths []string // .hcl / .toml files or directories

	Format  string
	OutDir  string
	Workers int
	Color   string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}
	if cfg.Workers < 0 {
		return nil, errors.New("workers must not be negative")
	}
	return &cfg, nil
}
