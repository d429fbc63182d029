package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/matchday/internal/adapters/mq/queue"
	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/ident"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// defaultFormation shapes generated squads whose request names none.
const defaultFormation = model.Formation442

// Submission is the outcome of SubmitMatch.
type Submission struct {
	MatchID   string `json:"match_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
}

// SubmitMatch queues req for simulation. A request id seen before is
// reported as a duplicate and not queued again.
func (s *Service) SubmitMatch(ctx context.Context, req model.MatchRequest) (Submission, error) { //nolint:gocritic // hugeParam: requests travel by value
	if err := s.running(); err != nil {
		return Submission{}, err
	}
	job, err := s.prepare(req)
	if err != nil {
		return Submission{}, err
	}
	if job.RequestID != "" && s.seen(ctx, job.RequestID) {
		s.logger.Debug(ctx, "duplicate match request, skipping", logger.String("requestID", job.RequestID))
		return Submission{RequestID: job.RequestID, Duplicate: true}, nil
	}

	job.EnqueuedAt = time.Now()
	if err := s.queue.Enqueue(ctx, job); err != nil {
		// Let the caller retry the same request id.
		if job.RequestID != "" {
			s.deduper.Forget(ctx, job.RequestID)
		}
		metrics.RecordErrorByComponent("service", errorKind(err))
		return Submission{}, fmt.Errorf("enqueue match: %w", err)
	}

	s.logger.Debug(ctx, "match queued",
		logger.String("matchID", job.MatchID),
		logger.String("home", job.HomeTeam.Name),
		logger.String("away", job.AwayTeam.Name),
	)
	return Submission{MatchID: job.MatchID, RequestID: job.RequestID}, nil
}

// SimulateMatch plays req on the calling goroutine and returns the stored
// record. A repeated request id yields repository.ErrDuplicate.
func (s *Service) SimulateMatch(ctx context.Context, req model.MatchRequest) (repository.MatchRecord, error) { //nolint:gocritic // hugeParam: requests travel by value
	if err := s.running(); err != nil {
		return repository.MatchRecord{}, err
	}
	job, err := s.prepare(req)
	if err != nil {
		return repository.MatchRecord{}, err
	}
	if job.RequestID != "" && s.seen(ctx, job.RequestID) {
		return repository.MatchRecord{}, fmt.Errorf("request %s: %w", job.RequestID, repository.ErrDuplicate)
	}
	job.EnqueuedAt = time.Now()

	rec, err := s.processor.Process(ctx, job)
	if err != nil {
		if job.RequestID != "" {
			s.deduper.Forget(ctx, job.RequestID)
		}
		return repository.MatchRecord{}, err
	}
	return rec, nil
}

// Match returns the stored match with id.
func (s *Service) Match(ctx context.Context, id string) (repository.MatchRecord, error) {
	if err := s.running(); err != nil {
		return repository.MatchRecord{}, err
	}
	return s.matches.Get(ctx, id)
}

// Matches returns one page of stored matches, newest first, plus the total.
func (s *Service) Matches(ctx context.Context, limit, offset int) ([]repository.MatchSummary, int, error) {
	if err := s.running(); err != nil {
		return nil, 0, err
	}
	list, err := s.matches.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.matches.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// seen records key and reports whether it had been recorded already.
func (s *Service) seen(ctx context.Context, key string) bool {
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordMatchDuplicate()
		return true
	}
	return false
}

// prepare turns a request into a job, generating any squad left empty.
func (s *Service) prepare(req model.MatchRequest) (model.MatchJob, error) { //nolint:gocritic // hugeParam: requests travel by value
	home, err := s.squad(req.HomeTeam)
	if err != nil {
		return model.MatchJob{}, fmt.Errorf("home team: %w", err)
	}
	away, err := s.squad(req.AwayTeam)
	if err != nil {
		return model.MatchJob{}, fmt.Errorf("away team: %w", err)
	}
	if home.ID == away.ID {
		return model.MatchJob{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidRequest)
	}
	source := req.Source
	if source == "" {
		source = "api"
	}
	return model.MatchJob{
		MatchID:         ident.V4(),
		RequestID:       strings.TrimSpace(req.RequestID),
		HomeTeam:        home,
		AwayTeam:        away,
		EventsPerMinute: req.EventsPerMinute,
		Source:          source,
	}, nil
}

// squad returns t ready to play. A team without starters gets a generated
// roster. A missing id falls back to the lower-cased name so that repeat
// fixtures land on the same standings row.
func (s *Service) squad(t model.Team) (model.Team, error) { //nolint:gocritic // hugeParam: teams travel by value
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return model.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidRequest)
	}
	if t.ID == "" {
		t.ID = strings.ToLower(t.Name)
	}
	if len(t.Starters) > 0 {
		return t.Clone(), nil
	}

	formation := t.Formation
	if formation == "" {
		formation = defaultFormation
	}
	generated, err := s.squads.GenerateTeam(t.Name, formation)
	if err != nil {
		return model.Team{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	generated.ID = t.ID
	if t.Tactics != nil {
		tactics := *t.Tactics
		generated.Tactics = &tactics
	}
	return generated, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, queue.ErrQueueFull):
		return "queue_full"
	case errors.Is(err, queue.ErrQueueClosed):
		return "queue_closed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "context"
	default:
		return "unknown"
	}
}
