package service

import (
	"time"

	"github.com/okian/matchday/internal/domain/match"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/names"
	"github.com/okian/matchday/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of simulation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the simulation queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request ids are remembered. Zero keeps all.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithDatabasePath sets the SQLite file. ":memory:" keeps data in RAM.
func WithDatabasePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.databasePath = path
		}
	}
}

// WithEventsPerMinute sets the default simulation rate.
func WithEventsPerMinute(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.eventsPerMinute = n
		}
	}
}

// WithMatchDuration sets the nominal match length in minutes.
func WithMatchDuration(minutes int) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.matchDuration = minutes
		}
	}
}

// WithTimelineStart sets the first in-game date. Zero means today.
func WithTimelineStart(start time.Time) Option {
	return func(s *Service) {
		s.timelineStart = start
	}
}

// WithMaxHistory caps the standings snapshots kept for undo.
func WithMaxHistory(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// WithNames selects the corpus used for generated squads.
func WithNames(gender names.Gender, country names.Country) Option {
	return func(s *Service) {
		s.nameGender = gender
		s.nameCountry = country
	}
}

// WithSeed makes generated squads reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.seed = &seed
	}
}

// WithSourceFactory makes each job's randomness come from fn.
func WithSourceFactory(fn func(model.MatchJob) match.RandomSource) Option {
	return func(s *Service) {
		s.newSource = fn
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
