package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/archer/internal/domain/model"
	"github.com/okian/archer/internal/domain/roster"
)

// RosterDependencies defines the roster operations used by the handler.
type RosterDependencies interface {
	Roster(ctx context.Context) []model.Coach
	AddCoach(ctx context.Context, name string) error
	AddBatch(ctx context.Context, coach string, b model.Batch) bool
}

// RosterHandler handles coach and batch requests.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

type coachRequest struct {
	Name string `json:"name"`
}

type batchRequest struct {
	Coach string `json:"coach"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type batchResponse struct {
	Applied bool `json:"applied"`
}

// HandleGetRoster handles GET /roster requests.
func (h *RosterHandler) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Roster(r.Context()))
}

// HandlePostCoach handles POST /roster/coaches requests.
func (h *RosterHandler) HandlePostCoach(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_coach"
	var req coachRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeKindError(w, err)
		return
	}

	err := h.deps.AddCoach(r.Context(), req.Name)
	switch {
	case errors.Is(err, roster.ErrDuplicateCoach):
		writeError(w, http.StatusConflict, "duplicate_coach", WrapKind(op, ErrConflict, err))
		return
	case errors.Is(err, roster.ErrInvalidCoachName):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, model.Coach{Name: strings.TrimSpace(req.Name), Batches: []model.Batch{}})
}

// HandlePostBatch handles POST /roster/batches requests. A batch for an
// unknown coach is not an error; the response reports applied=false.
func (h *RosterHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_batch"
	var req batchRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeKindError(w, err)
		return
	}
	applied := h.deps.AddBatch(r.Context(), req.Coach, model.Batch{Name: req.Name, Level: req.Level})
	writeJSON(w, http.StatusOK, batchResponse{Applied: applied})
}

// HandleGetLevels handles GET /levels requests.
func (h *RosterHandler) HandleGetLevels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.Levels)
}
