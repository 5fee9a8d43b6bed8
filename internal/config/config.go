// Package config loads and validates cadm configuration.
package config

import (
	"time"

	"github.com/calebh/cadm/internal/errors"
)

// Config is the resolved tool configuration.
type Config struct {
	// Seeds are the addresses used to bootstrap cluster discovery.
	Seeds []string `mapstructure:"seeds" yaml:"seeds"`
	// Timeout bounds each per-node info request.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// InfoTTL is how long a per-node response may be reused.
	InfoTTL time.Duration `mapstructure:"info_ttl" yaml:"info_ttl"`
	// WatchInterval is the default sleep between watch iterations.
	WatchInterval time.Duration `mapstructure:"watch_interval" yaml:"watch_interval"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Seeds:         []string{"127.0.0.1:3000"},
		Timeout:       5 * time.Second,
		InfoTTL:       500 * time.Millisecond,
		WatchInterval: 2 * time.Second,
	}
}

// Validate checks the configuration for values that cannot work.
func Validate(cfg *Config) error {
	if len(cfg.Seeds) == 0 {
		return errors.New(errors.ErrConfig,
			"No seed nodes configured",
			"Add at least one host:port under 'seeds' in your config, or run 'cadm init'")
	}
	if cfg.Timeout < 0 {
		return errors.New(errors.ErrConfig,
			"Negative timeout",
			"Use a non-negative duration like 5s")
	}
	if cfg.WatchInterval < 100*time.Millisecond {
		return errors.New(errors.ErrConfig,
			"Watch interval too short",
			"Minimum watch_interval is 100ms to avoid overwhelming nodes")
	}
	return nil
}
