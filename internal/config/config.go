// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading layers defaults, an optional YAML file and VERO_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// MaxListLimit caps the ?limit query parameter on list endpoints.
	MaxListLimit int `koanf:"max_list_limit"`
	// IdempotencyCacheSize bounds the Idempotency-Key cache (<= 0 is unbounded).
	IdempotencyCacheSize int `koanf:"idempotency_cache_size"`
	// RateLimitRPS and RateLimitBurst configure the API token bucket. RPS <= 0 disables it.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
	// SnapshotPath is the SQLite file used to persist collections. Empty keeps state in memory only.
	SnapshotPath string `koanf:"snapshot_path"`
	// SnapshotSchedule is a cron spec for periodic snapshots, e.g. "@every 1m".
	SnapshotSchedule string `koanf:"snapshot_schedule"`
	// ReputationWeights overrides club category weights by category name.
	ReputationWeights map[string]float64 `koanf:"reputation_weights"`
	// ReputationGold and ReputationAmber are the inclusive lower bounds of the reputation tiers.
	ReputationGold  float64 `koanf:"reputation_gold"`
	ReputationAmber float64 `koanf:"reputation_amber"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		MaxListLimit:         500,
		IdempotencyCacheSize: 10_000,
		RateLimitRPS:         50,
		RateLimitBurst:       100,
		SnapshotPath:         "",
		SnapshotSchedule:     "@every 1m",
		ReputationWeights:    map[string]float64{},
		ReputationGold:  90,
		ReputationAmber: 75,
	}
}

// Validate checks rules that koanf cannot express.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxListLimit < 1:
		return fmt.Errorf("%w: max_list_limit must be positive", ErrInvalidConfig)
	case c.RateLimitRPS > 0 && c.RateLimitBurst < 1:
		return fmt.Errorf("%w: rate_limit_burst must be positive when rate limiting is enabled", ErrInvalidConfig)
	case c.ReputationAmber > c.ReputationGold:
		return fmt.Errorf("%w: reputation_amber must not exceed reputation_gold", ErrInvalidConfig)
	case c.SnapshotPath != "" && strings.TrimSpace(c.SnapshotSchedule) == "":
		return fmt.Errorf("%w: snapshot_schedule is required when snapshot_path is set", ErrInvalidConfig)
	}
	return nil
}
