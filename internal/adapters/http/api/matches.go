package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/okian/matchday/internal/adapters/repository"
)

// defaultListLimit is the page size of GET /matches without ?limit.
const defaultListLimit = 20

// MatchHandler handles match requests.
type MatchHandler struct {
	deps     MatchDependencies
	validate *validator.Validate
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies, v *validator.Validate) *MatchHandler {
	return &MatchHandler{deps: deps, validate: v}
}

type listResponse struct {
	Matches []Summary `json:"matches"`
	Total   int       `json:"total"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
}

// HandleSubmit handles POST /matches. The match is queued and played by a
// worker; a repeated request_id is acknowledged without queueing.
func (h *MatchHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_match"
	var req matchRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	sub, err := h.deps.SubmitMatch(r.Context(), req.toModel())
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	if sub.Duplicate {
		writeJSON(w, http.StatusOK, sub)
		return
	}
	writeJSON(w, http.StatusAccepted, sub)
}

// HandleSimulate handles POST /matches/simulate and returns the full record.
func (h *MatchHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "api.simulate_match"
	var req matchRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	rec, err := h.deps.SimulateMatch(r.Context(), req.toModel())
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// HandleList handles GET /matches?limit=N&offset=M.
func (h *MatchHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_matches"
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit < 1 || limit > repository.MaxListLimit {
		writeError(r.Context(), w, NewKind(op, ErrBadRequest))
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		writeError(r.Context(), w, NewKind(op, ErrBadRequest))
		return
	}
	list, total, err := h.deps.Matches(r.Context(), limit, offset)
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	if list == nil {
		list = []Summary{}
	}
	writeJSON(w, http.StatusOK, listResponse{Matches: list, Total: total, Limit: limit, Offset: offset})
}

// HandleGet handles GET /matches/{id}.
func (h *MatchHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_match"
	rec, err := h.deps.Match(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// queryInt parses the query parameter name, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
