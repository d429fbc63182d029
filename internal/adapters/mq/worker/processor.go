package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/domain/eventbus"
	"github.com/okian/matchday/internal/domain/match"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/standings"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// Store saves finished matches.
type Store interface {
	Save(ctx context.Context, rec repository.MatchRecord) error
}

// Recorder folds a finished match into the league table.
type Recorder interface {
	RecordResult(ctx context.Context, res standings.Result) error
}

// Publisher fans payloads out to subscribers. *eventbus.Bus satisfies it.
type Publisher interface {
	Emit(ctx context.Context, topic string, data any) int
}

// EventMessage is published for every match event while a match runs.
type EventMessage struct {
	MatchID  string           `json:"match_id"`
	HomeTeam string           `json:"home_team"`
	AwayTeam string           `json:"away_team"`
	Event    match.MatchEvent `json:"event"`
}

// FinishedMessage is published once a match is stored.
type FinishedMessage struct {
	MatchID   string `json:"match_id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

// Processor simulates one job end to end: play the match, store it, update
// the table and announce it.
type Processor struct {
	store     Store
	recorder  Recorder
	publisher Publisher
	log       logger.Logger

	matchDuration   int
	eventsPerMinute int
	newSource       func(model.MatchJob) match.RandomSource
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithMatchDuration sets the informational match length passed to simulators.
func WithMatchDuration(minutes int) ProcessorOption {
	return func(p *Processor) {
		if minutes > 0 {
			p.matchDuration = minutes
		}
	}
}

// WithEventsPerMinute sets the rate used for jobs that do not carry one.
func WithEventsPerMinute(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.eventsPerMinute = n
		}
	}
}

// WithSourceFactory makes each job's randomness come from fn.
func WithSourceFactory(fn func(model.MatchJob) match.RandomSource) ProcessorOption {
	return func(p *Processor) { p.newSource = fn }
}

// WithProcessorLogger sets the processor logger.
func WithProcessorLogger(l logger.Logger) ProcessorOption {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// NewProcessor wires a processor. recorder and publisher may be nil.
func NewProcessor(store Store, recorder Recorder, publisher Publisher, opts ...ProcessorOption) *Processor {
	p := &Processor{
		store:           store,
		recorder:        recorder,
		publisher:       publisher,
		matchDuration:   match.DefaultMatchDuration,
		eventsPerMinute: match.DefaultEventsPerMinute,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Named("processor")
	}
	return p
}

// Process runs job and returns the stored record.
func (p *Processor) Process(ctx context.Context, job model.MatchJob) (repository.MatchRecord, error) { //nolint:gocritic // hugeParam: jobs travel by value
	epm := job.EventsPerMinute
	if epm <= 0 {
		epm = p.eventsPerMinute
	}
	opts := []match.Option{match.WithLogger(p.log)}
	if p.newSource != nil {
		opts = append(opts, match.WithRandomSource(p.newSource(job)))
	}
	if p.publisher != nil {
		opts = append(opts, match.WithEventObserver(func(ev match.MatchEvent) {
			p.publisher.Emit(ctx, eventbus.TopicMatchEvent, EventMessage{
				MatchID:  job.MatchID,
				HomeTeam: job.HomeTeam.Name,
				AwayTeam: job.AwayTeam.Name,
				Event:    ev,
			})
		}))
	}

	sim := match.NewSimulator(match.Config{
		MatchDuration:   p.matchDuration,
		EventsPerMinute: epm,
		HomeTeam:        job.HomeTeam,
		AwayTeam:        job.AwayTeam,
	}, opts...)

	start := time.Now()
	result, err := sim.SimulateContext(ctx)
	metrics.RecordSimulationLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordErrorByComponent("worker", "simulation_cancelled")
		return repository.MatchRecord{}, fmt.Errorf("simulate match %s: %w", job.MatchID, err)
	}

	final := result.FinalState
	metrics.RecordMatchSimulated(final.HomeScore, final.AwayScore)
	for _, ev := range result.Events {
		metrics.RecordMatchEvent(string(ev.Type))
	}

	rec := repository.MatchRecord{
		ID:        job.MatchID,
		RequestID: job.RequestID,
		HomeTeam:  job.HomeTeam.Name,
		AwayTeam:  job.AwayTeam.Name,
		HomeScore: final.HomeScore,
		AwayScore: final.AwayScore,
		Source:    job.Source,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.store.Save(ctx, rec); err != nil {
		metrics.RecordErrorByComponent("worker", "save_error")
		return rec, fmt.Errorf("store match %s: %w", job.MatchID, err)
	}

	if p.recorder != nil {
		if err := p.recorder.RecordResult(ctx, standings.Result{
			MatchID:   job.MatchID,
			HomeID:    teamKey(job.HomeTeam),
			HomeName:  job.HomeTeam.Name,
			AwayID:    teamKey(job.AwayTeam),
			AwayName:  job.AwayTeam.Name,
			HomeGoals: final.HomeScore,
			AwayGoals: final.AwayScore,
		}); err != nil {
			metrics.RecordErrorByComponent("worker", "standings_error")
			return rec, fmt.Errorf("record standings for %s: %w", job.MatchID, err)
		}
	}

	if p.publisher != nil {
		p.publisher.Emit(ctx, eventbus.TopicMatchFinished, FinishedMessage{
			MatchID:   rec.ID,
			HomeTeam:  rec.HomeTeam,
			AwayTeam:  rec.AwayTeam,
			HomeScore: rec.HomeScore,
			AwayScore: rec.AwayScore,
		})
	}

	p.log.Info(ctx, "match simulated",
		logger.String("match_id", rec.ID),
		logger.String("source", rec.Source),
		logger.String("score", fmt.Sprintf("%s %d - %d %s", rec.HomeTeam, rec.HomeScore, rec.AwayScore, rec.AwayTeam)),
	)
	return rec, nil
}

// teamKey identifies a team in the table. Teams without an id are keyed by
// their lower-cased name.
func teamKey(t model.Team) string {
	if t.ID != "" {
		return t.ID
	}
	return strings.ToLower(strings.TrimSpace(t.Name))
}
