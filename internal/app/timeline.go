package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/matchday/internal/domain/eventbus"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/timeline"
	"github.com/okian/matchday/pkg/ident"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// fixtureTag marks moments that enqueue a match when fired.
const fixtureTag = "fixture"

// ScheduleMoment registers a moment on the timeline. A fixture is resolved
// into full squads now, so the match played later is the one scheduled.
func (s *Service) ScheduleMoment(ctx context.Context, spec model.MomentSpec) (*timeline.Moment, error) { //nolint:gocritic // hugeParam: specs travel by value
	if err := s.running(); err != nil {
		return nil, err
	}
	spec.Name = strings.TrimSpace(spec.Name)
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: moment name is required", ErrInvalidRequest)
	}
	if spec.Date.IsZero() {
		return nil, fmt.Errorf("%w: moment date is required", ErrInvalidRequest)
	}
	if spec.ID == "" {
		spec.ID = ident.V4()
	}
	if _, exists := s.timeline.Moment(spec.ID); exists {
		return nil, fmt.Errorf("%w: %s", ErrMomentExists, spec.ID)
	}

	m := &timeline.Moment{
		ID:          spec.ID,
		Name:        spec.Name,
		Date:        spec.Date,
		Description: spec.Description,
		Tags:        append([]string(nil), spec.Tags...),
	}

	if spec.Fixture != nil {
		req := *spec.Fixture
		job, err := s.prepare(req)
		if err != nil {
			return nil, err
		}
		req.HomeTeam, req.AwayTeam = job.HomeTeam, job.AwayTeam
		if req.RequestID == "" {
			// A moment fired twice must not play its fixture twice.
			req.RequestID = "moment:" + spec.ID
		}
		if req.Source == "" {
			req.Source = "timeline"
		}
		if !m.HasTag(fixtureTag) {
			m.Tags = append(m.Tags, fixtureTag)
		}
		m.Payload = fixtureSummary{
			RequestID: req.RequestID,
			HomeTeam:  req.HomeTeam.Name,
			AwayTeam:  req.AwayTeam.Name,
		}
		m.Callback = func(ctx context.Context, _ *timeline.Moment) error {
			sub, err := s.SubmitMatch(ctx, req)
			if err != nil {
				return err
			}
			if sub.Duplicate {
				s.logger.Debug(ctx, "fixture already played", logger.String("requestID", req.RequestID))
			}
			return nil
		}
	}

	scheduled := *m
	s.timeline.RegisterMoment(m)
	metrics.UpdateTimelineMoments(s.timeline.Len())
	s.logger.Debug(ctx, "moment scheduled",
		logger.String("id", m.ID),
		logger.String("name", m.Name),
		logger.String("date", m.Date.Format("2006-01-02")),
	)
	return &scheduled, nil
}

// fixtureSummary is the public payload of a fixture moment.
type fixtureSummary struct {
	RequestID string `json:"request_id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
}

// RemoveMoment deletes the moment with id.
func (s *Service) RemoveMoment(_ context.Context, id string) error {
	if err := s.running(); err != nil {
		return err
	}
	if !s.timeline.RemoveMoment(id) {
		return fmt.Errorf("%w: %s", ErrMomentNotFound, id)
	}
	metrics.UpdateTimelineMoments(s.timeline.Len())
	return nil
}

// ResolveMoment marks the moment with id as resolved without firing it.
func (s *Service) ResolveMoment(_ context.Context, id string) (*timeline.Moment, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	if !s.timeline.ResolveMoment(id) {
		return nil, fmt.Errorf("%w: %s", ErrMomentNotFound, id)
	}
	m, _ := s.timeline.Moment(id)
	return m, nil
}

// Moments lists the moments matching f.
func (s *Service) Moments(_ context.Context, f timeline.Filter) ([]*timeline.Moment, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.timeline.Query(f), nil
}

// AdvanceTimeline moves the clock forward days days, fires the unresolved
// moments reached and resolves them whether or not their callbacks succeed.
func (s *Service) AdvanceTimeline(ctx context.Context, days int) (timeline.AdvanceReport, error) {
	if err := s.running(); err != nil {
		return timeline.AdvanceReport{}, err
	}
	if days < 1 {
		return timeline.AdvanceReport{}, fmt.Errorf("%w: days must be positive", ErrInvalidRequest)
	}

	reached := s.timeline.AdvanceTime(days)
	pending := make([]*timeline.Moment, 0, len(reached))
	for _, m := range reached {
		if !m.Resolved {
			pending = append(pending, m)
		}
	}

	fired := s.timeline.FireMoments(ctx, pending)
	resolved := s.timeline.ResolveMoments(pending)
	for _, m := range pending {
		m.Resolved = true
		s.bus.Emit(ctx, eventbus.TopicMomentFired, m)
	}

	metrics.RecordTimelineAdvance(days)
	for i := range fired.Fired {
		metrics.RecordMomentFired(i < fired.Failed)
	}

	report := timeline.AdvanceReport{
		Date:     s.timeline.CurrentDate(),
		Moments:  pending,
		Fired:    fired.Fired,
		Failed:   fired.Failed,
		Resolved: resolved,
	}
	s.logger.Info(ctx, "timeline advanced",
		logger.Int("days", days),
		logger.String("date", report.Date.Format("2006-01-02")),
		logger.Int("fired", report.Fired),
		logger.Int("failed", report.Failed),
	)
	return report, nil
}

// TimelineInfo reports the clock and moment counts.
func (s *Service) TimelineInfo(context.Context) (timeline.Info, error) {
	if err := s.running(); err != nil {
		return timeline.Info{}, err
	}
	return s.timeline.Info(), nil
}
