package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GRAPPLE_CONFIG is set
//  3. env (prefix GRAPPLE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("GRAPPLE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Map env keys like GRAPPLE_ARCHIVE_QUEUE_SIZE -> archive_queue_size,
	// preserving underscores to match the koanf tags on the struct.
	envProvider := env.Provider("GRAPPLE_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "grapple_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the service cannot start with.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ArchiveQueueSize < 1:
		return fmt.Errorf("%w: archive_queue_size must be positive", ErrInvalidConfig)
	case c.ArchiverWorkers < 1:
		return fmt.Errorf("%w: archiver_workers must be positive", ErrInvalidConfig)
	case c.RidingTimeBonusSeconds < 1:
		return fmt.Errorf("%w: riding_time_bonus_seconds must be positive", ErrInvalidConfig)
	case c.MaxResultsLimit < 1:
		return fmt.Errorf("%w: max_results_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
