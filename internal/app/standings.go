package service

import (
	"context"

	"github.com/okian/matchday/internal/domain/eventbus"
	"github.com/okian/matchday/internal/domain/standings"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// RecordResult folds a finished match into the league table and announces
// the new table. Workers call it for every processed job.
func (s *Service) RecordResult(ctx context.Context, res standings.Result) error {
	s.tableMu.Lock()
	s.table.Update(func(t *standings.Table) { t.Record(res) })
	table := s.table.State()
	s.tableMu.Unlock()

	metrics.RecordStandingsUpdate()
	s.bus.Emit(ctx, eventbus.TopicStandingsUpdated, table.Sorted())
	return nil
}

// Standings returns a copy of the current table.
func (s *Service) Standings(context.Context) (standings.Table, error) {
	if err := s.running(); err != nil {
		return standings.Table{}, err
	}
	return s.table.State(), nil
}

// UndoStandings reverts the most recent table change.
func (s *Service) UndoStandings(ctx context.Context) (standings.Table, error) {
	if err := s.running(); err != nil {
		return standings.Table{}, err
	}

	s.tableMu.Lock()
	ok := s.table.Undo()
	table := s.table.State()
	s.tableMu.Unlock()

	if !ok {
		return standings.Table{}, ErrNothingToUndo
	}
	metrics.RecordStandingsUndo()
	s.logger.Info(ctx, "standings reverted", logger.Int("matches", table.Matches))
	s.bus.Emit(ctx, eventbus.TopicStandingsUpdated, table.Sorted())
	return table, nil
}
