// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers a YAML file and MATCHDAY_ environment variables on top.
//   - Validation failures wrap ErrInvalidConfig; loading failures wrap
//     ErrLoadConfig.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the format of TimelineStart.
const DateLayout = "2006-01-02"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log encoder: text, json or console.
	LogFormat string `koanf:"log_format" validate:"oneof=text json console"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// QueueSize bounds the in-memory simulation queue.
	QueueSize int `koanf:"queue_size" validate:"min=1"`

	// WorkerCount sets the number of simulation workers.
	WorkerCount int `koanf:"worker_count" validate:"min=1"`

	// DedupeSize sets how many submission keys are remembered. Zero keeps
	// every key.
	DedupeSize int `koanf:"dedupe_size" validate:"min=0"`

	// EventsPerMinute is the default upper bound of sub-ticks per minute.
	EventsPerMinute int `koanf:"events_per_minute" validate:"min=1,max=20"`

	// MatchDuration is the nominal match length in minutes.
	MatchDuration int `koanf:"match_duration" validate:"min=1"`

	// DatabasePath locates the SQLite file; ":memory:" keeps data in RAM.
	DatabasePath string `koanf:"database_path" validate:"required"`

	// TimelineStart is the first in-game date, YYYY-MM-DD. Empty means today.
	TimelineStart string `koanf:"timeline_start" validate:"omitempty,datetime=2006-01-02"`

	// MaxHistorySize caps standings snapshots kept for undo.
	MaxHistorySize int `koanf:"max_history_size" validate:"min=1"`

	// NameCountry and NameGender select the generated-name corpus.
	NameCountry string `koanf:"name_country" validate:"oneof=norway england all"`
	NameGender  string `koanf:"name_gender" validate:"oneof=male female all"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		QueueSize:       1024,
		WorkerCount:     runtime.NumCPU(),
		DedupeSize:      10_000,
		EventsPerMinute: 3,
		MatchDuration:   90,
		DatabasePath:    "data/matchday.db",
		TimelineStart:   "",
		MaxHistorySize:  50,
		NameCountry:     "all",
		NameGender:      "male",
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// StartDate parses TimelineStart. The zero time means "now".
func (c *Config) StartDate() (time.Time, error) {
	if c.TimelineStart == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, c.TimelineStart, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timeline_start: %w", ErrInvalidConfig, err)
	}
	return t, nil
}
