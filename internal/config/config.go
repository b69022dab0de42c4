// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() provides built-in defaults; Load layers file and env on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ArchiveQueueSize bounds the finalized-match archive queue.
	ArchiveQueueSize int `koanf:"archive_queue_size"`

	// ArchiverWorkers sets the number of archive workers.
	ArchiverWorkers int `koanf:"archiver_workers"`

	// DedupeSize bounds the event-submission idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// RidingTimeBonusSeconds is the net riding-time advantage that earns
	// the bonus point. Folkstyle rules say 60.
	RidingTimeBonusSeconds int `koanf:"riding_time_bonus_seconds"`

	// MaxResultsLimit caps GET /results?limit.
	MaxResultsLimit int `koanf:"max_results_limit"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		ArchiveQueueSize:       1024,
		ArchiverWorkers:        runtime.NumCPU(),
		DedupeSize:             50_000,
		RidingTimeBonusSeconds: 60,
		MaxResultsLimit:        100,
	}
}
