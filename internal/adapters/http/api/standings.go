package api

import (
	"net/http"

	"github.com/okian/matchday/internal/domain/standings"
)

// StandingsHandler handles league table requests.
type StandingsHandler struct {
	deps StandingsDependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

type standingsResponse struct {
	Matches int             `json:"matches"`
	Rows    []standings.Row `json:"rows"`
}

func tableResponse(t Table) standingsResponse { //nolint:gocritic // hugeParam: built once per request
	rows := t.Sorted()
	if rows == nil {
		rows = []standings.Row{}
	}
	return standingsResponse{Matches: t.Matches, Rows: rows}
}

// HandleGet handles GET /standings.
func (h *StandingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standings"
	table, err := h.deps.Standings(r.Context())
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tableResponse(table))
}

// HandleUndo handles POST /standings/undo.
func (h *StandingsHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	const op = "api.undo_standings"
	table, err := h.deps.UndoStandings(r.Context())
	if err != nil {
		writeError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tableResponse(table))
}
