package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/okian/matchday/internal/domain/timeline"
)

// TimelineHandler handles in-game calendar requests.
type TimelineHandler struct {
	deps     TimelineDependencies
	validate *validator.Validate
}

// NewTimelineHandler creates a new timeline handler.
func NewTimelineHandler(deps TimelineDependencies, v *validator.Validate) *TimelineHandler {
	return &TimelineHandler{deps: deps, validate: v}
}

// HandleInfo handles GET /timeline.
func (h *TimelineHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	const op = "api.timeline_info"
	info, err := h.deps.TimelineInfo(r.Context())
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleSchedule handles POST /timeline/moments.
func (h *TimelineHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "api.schedule_moment"
	var req momentRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	spec, err := req.toModel()
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	m, err := h.deps.ScheduleMoment(r.Context(), spec)
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// HandleList handles GET /timeline/moments?tag=&date=&unresolved=.
func (h *TimelineHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_moments"
	q := r.URL.Query()
	f := timeline.Filter{Tag: q.Get("tag")}
	if raw := q.Get("date"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			writeError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
			return
		}
		f.Date = d
	}
	if raw := q.Get("unresolved"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
			return
		}
		f.UnresolvedOnly = b
	}
	moments, err := h.deps.Moments(r.Context(), f)
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	if moments == nil {
		moments = []*timeline.Moment{}
	}
	writeJSON(w, http.StatusOK, moments)
}

// HandleRemove handles DELETE /timeline/moments/{id}.
func (h *TimelineHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_moment"
	if err := h.deps.RemoveMoment(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleResolve handles POST /timeline/moments/{id}/resolve.
func (h *TimelineHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.resolve_moment"
	m, err := h.deps.ResolveMoment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleAdvance handles POST /timeline/advance.
func (h *TimelineHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	const op = "api.advance_timeline"
	var req advanceRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	report, err := h.deps.AdvanceTimeline(r.Context(), req.Days)
	if err != nil {
		writeError(r.Context(), w, Wrap(op, fmt.Errorf("advance %d days: %w", req.Days, err)))
		return
	}
	if report.Moments == nil {
		report.Moments = []*timeline.Moment{}
	}
	writeJSON(w, http.StatusOK, report)
}
