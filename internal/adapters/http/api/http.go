// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/okian/matchday/internal/adapters/repository"
	service "github.com/okian/matchday/internal/app"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/standings"
	"github.com/okian/matchday/internal/domain/timeline"
	"github.com/okian/matchday/pkg/logger"
)

// maxBodyBytes bounds request bodies; full squads are a few dozen KB.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	StandingsDependencies
	TimelineDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	matchHandler     *MatchHandler
	standingsHandler *StandingsHandler
	timelineHandler  *TimelineHandler
	stream           *Stream
}

// NewServer creates a new API server with all handlers. stream may be nil,
// in which case /ws/matches is not served.
func NewServer(deps Dependencies, statsProvider StatsProvider, stream *Stream) *Server {
	v := newValidator()
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		matchHandler:     NewMatchHandler(deps, v),
		standingsHandler: NewStandingsHandler(deps),
		timelineHandler:  NewTimelineHandler(deps, v),
		stream:           stream,
	}
}

// Register attaches all HTTP routes to router.
func (s *Server) Register(_ context.Context, router *mux.Router) {
	router.Use(MetricsMiddleware)

	router.HandleFunc("/healthz", s.healthHandler.HandleHealth).Methods(http.MethodGet)
	router.HandleFunc("/stats", s.statsHandler.HandleStats).Methods(http.MethodGet)

	router.HandleFunc("/matches", s.matchHandler.HandleSubmit).Methods(http.MethodPost)
	router.HandleFunc("/matches/simulate", s.matchHandler.HandleSimulate).Methods(http.MethodPost)
	router.HandleFunc("/matches", s.matchHandler.HandleList).Methods(http.MethodGet)
	router.HandleFunc("/matches/{id}", s.matchHandler.HandleGet).Methods(http.MethodGet)

	router.HandleFunc("/standings", s.standingsHandler.HandleGet).Methods(http.MethodGet)
	router.HandleFunc("/standings/undo", s.standingsHandler.HandleUndo).Methods(http.MethodPost)

	router.HandleFunc("/timeline", s.timelineHandler.HandleInfo).Methods(http.MethodGet)
	router.HandleFunc("/timeline/advance", s.timelineHandler.HandleAdvance).Methods(http.MethodPost)
	router.HandleFunc("/timeline/moments", s.timelineHandler.HandleSchedule).Methods(http.MethodPost)
	router.HandleFunc("/timeline/moments", s.timelineHandler.HandleList).Methods(http.MethodGet)
	router.HandleFunc("/timeline/moments/{id}", s.timelineHandler.HandleRemove).Methods(http.MethodDelete)
	router.HandleFunc("/timeline/moments/{id}/resolve", s.timelineHandler.HandleResolve).Methods(http.MethodPost)

	if s.stream != nil {
		router.Handle("/ws/matches", s.stream).Methods(http.MethodGet)
	}
}

// Compile-time check that the service satisfies the handler contracts.
var _ Dependencies = (*service.Service)(nil)

// Result shapes shared by the handler contracts.
type (
	Submission = service.Submission
	Record     = repository.MatchRecord
	Summary    = repository.MatchSummary
	Table      = standings.Table
)

// MatchDependencies covers match submission and lookup.
type MatchDependencies interface {
	SubmitMatch(ctx context.Context, req model.MatchRequest) (Submission, error)
	SimulateMatch(ctx context.Context, req model.MatchRequest) (Record, error)
	Match(ctx context.Context, id string) (Record, error)
	Matches(ctx context.Context, limit, offset int) ([]Summary, int, error)
}

// StandingsDependencies covers the league table.
type StandingsDependencies interface {
	Standings(ctx context.Context) (Table, error)
	UndoStandings(ctx context.Context) (Table, error)
}

// TimelineDependencies covers the in-game calendar.
type TimelineDependencies interface {
	ScheduleMoment(ctx context.Context, spec model.MomentSpec) (*timeline.Moment, error)
	RemoveMoment(ctx context.Context, id string) error
	ResolveMoment(ctx context.Context, id string) (*timeline.Moment, error)
	Moments(ctx context.Context, f timeline.Filter) ([]*timeline.Moment, error)
	AdvanceTimeline(ctx context.Context, days int) (timeline.AdvanceReport, error)
	TimelineInfo(ctx context.Context) (timeline.Info, error)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q", ErrBadRequest, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and writes the JSON error body. Server
// side failures are logged.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Error(ctx, "request failed", logger.String("code", code), logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}
