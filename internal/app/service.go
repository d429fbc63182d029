// Package service wires the simulation pipeline together and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/matchday/internal/adapters/mq/queue"
	"github.com/okian/matchday/internal/adapters/mq/worker"
	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/domain/dedupe"
	"github.com/okian/matchday/internal/domain/eventbus"
	"github.com/okian/matchday/internal/domain/match"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/names"
	"github.com/okian/matchday/internal/domain/players"
	"github.com/okian/matchday/internal/domain/standings"
	"github.com/okian/matchday/internal/domain/state"
	"github.com/okian/matchday/internal/domain/timeline"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// standingsKey is the key-value entry the league table persists under.
const standingsKey = "standings"

// Service owns every pipeline component: storage, queue, workers, the event
// bus, the timeline and the league table.
type Service struct {
	mu sync.RWMutex

	// Core components
	db        *repository.DB
	matches   repository.MatchStore
	kv        *repository.KVStore
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	processor *worker.Processor
	pool      *worker.Pool
	bus       *eventbus.Bus
	timeline  *timeline.Timeline
	table     *state.Manager[standings.Table]
	squads    *players.Generator

	// tableMu serializes read-modify-write cycles on the table.
	tableMu sync.Mutex

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	databasePath    string
	eventsPerMinute int
	matchDuration   int
	timelineStart   time.Time
	maxHistory      int
	nameGender      names.Gender
	nameCountry     names.Country
	seed            *uint64
	newSource       func(model.MatchJob) match.RandomSource

	// State
	started    bool
	stopWorker context.CancelFunc

	logger logger.Logger
}

// New constructs a Service with default configuration. Nothing is opened
// until Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU(),
		queueSize:       1024,
		dedupeSize:      dedupe.DefaultMaxSize,
		databasePath:    ":memory:",
		eventsPerMinute: match.DefaultEventsPerMinute,
		matchDuration:   match.DefaultMatchDuration,
		maxHistory:      state.DefaultMaxHistory,
		nameGender:      names.Male,
		nameCountry:     names.AllCountries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens storage and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting matchday service...")

	nameOpts := []names.Option{}
	playerOpts := []players.Option{}
	if s.seed != nil {
		nameOpts = append(nameOpts, names.WithSeed(*s.seed))
		playerOpts = append(playerOpts, players.WithSeed(*s.seed))
	}
	nameGen, err := names.New(s.nameGender, s.nameCountry, nameOpts...)
	if err != nil {
		return fmt.Errorf("name generator: %w", err)
	}

	db, err := repository.Open(ctx, s.databasePath, repository.WithLogger(s.logger.Named("repository")))
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	s.db = db
	s.matches = repository.NewMatchStore(db)
	s.kv = repository.NewKVStore(db)
	s.squads = players.New(nameGen, playerOpts...)
	s.bus = eventbus.New(eventbus.WithLogger(s.logger.Named("eventbus")))
	s.timeline = timeline.New(s.timelineStart, timeline.WithLogger(s.logger.Named("timeline")))
	s.table = state.New(standings.NewTable(),
		state.WithHistory(true),
		state.WithMaxHistory(s.maxHistory),
		state.WithPersistence(s.kv, standingsKey),
		state.WithLogger(s.logger.Named("standings")),
	)
	s.deduper = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))

	procOpts := []worker.ProcessorOption{
		worker.WithMatchDuration(s.matchDuration),
		worker.WithEventsPerMinute(s.eventsPerMinute),
		worker.WithProcessorLogger(s.logger.Named("processor")),
	}
	if s.newSource != nil {
		procOpts = append(procOpts, worker.WithSourceFactory(s.newSource))
	}
	s.processor = worker.NewProcessor(s.matches, s, s.bus, procOpts...)
	s.pool = worker.NewPool(s.workerCount, s.queue, s.processor)

	// Workers outlive the context that started them; Stop ends them.
	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.stopWorker = cancel
	s.pool.Start(workerCtx)

	if n, err := s.matches.Count(ctx); err == nil {
		metrics.UpdateMatchesStored(n)
	}
	metrics.UpdateTimelineMoments(0)

	s.started = true
	s.logger.Info(ctx, "matchday service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("database", s.databasePath),
		logger.String("timeline", s.timeline.CurrentDate().Format(time.DateOnly)),
	)
	return nil
}

// Stop drains the queue, stops the workers and closes storage.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping matchday service...")

	var firstErr error
	if err := s.pool.Shutdown(ctx); err != nil {
		firstErr = err
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	s.stopWorker()

	if err := s.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close repository: %w", err)
	}

	s.started = false
	s.logger.Info(ctx, "matchday service stopped")
	return firstErr
}

// running returns an error unless Start has completed.
func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Bus returns the event bus, or nil before Start.
func (s *Service) Bus() *eventbus.Bus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bus
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["dedupeEntries"] = s.deduper.Size()
		stats["timelineDate"] = s.timeline.CurrentDate().Format(time.DateOnly)
		stats["moments"] = s.timeline.Len()
		stats["streamListeners"] = s.bus.ListenerCount(eventbus.TopicMatchEvent)

		if n, err := s.matches.Count(ctx); err == nil {
			stats["matchesStored"] = n
			metrics.UpdateMatchesStored(n)
		}
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.pool.Size())
	}

	return stats
}
