package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/archer/internal/domain/grade"
	"github.com/okian/archer/internal/domain/model"
	"github.com/okian/archer/internal/domain/scoring"
)

// SkillDependencies defines the skill sheet operations used by the handler.
type SkillDependencies interface {
	Skills(ctx context.Context) []model.SkillEvaluation
	SetGrade(ctx context.Context, skillID string, g grade.Grade) (model.SkillEvaluation, error)
	Total(ctx context.Context) int
}

// SkillsHandler handles skill and grade requests.
type SkillsHandler struct {
	deps SkillDependencies
}

// NewSkillsHandler creates a new skills handler.
func NewSkillsHandler(deps SkillDependencies) *SkillsHandler {
	return &SkillsHandler{deps: deps}
}

type gradeRequest struct {
	Grade string `json:"grade"`
}

type gradeInfo struct {
	Symbol string `json:"symbol"`
	Score  int    `json:"score"`
}

type skillsResponse struct {
	Skills []skillScore `json:"skills"`
	Total  int          `json:"total"`
	Max    int          `json:"max"`
}

type skillScore struct {
	model.SkillEvaluation
	Score int `json:"score"`
}

func toSkillScores(evals []model.SkillEvaluation) []skillScore {
	out := make([]skillScore, len(evals))
	for i, e := range evals {
		out[i] = skillScore{SkillEvaluation: e, Score: e.Score()}
	}
	return out
}

// HandleGetGrades handles GET /grades requests.
func (h *SkillsHandler) HandleGetGrades(w http.ResponseWriter, _ *http.Request) {
	all := grade.All()
	out := make([]gradeInfo, len(all))
	for i, g := range all {
		out[i] = gradeInfo{Symbol: g.String(), Score: g.Score()}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetSkills handles GET /skills requests.
func (h *SkillsHandler) HandleGetSkills(w http.ResponseWriter, r *http.Request) {
	evals := h.deps.Skills(r.Context())
	writeJSON(w, http.StatusOK, skillsResponse{
		Skills: toSkillScores(evals),
		Total:  h.deps.Total(r.Context()),
		Max:    scoring.Max(len(evals)),
	})
}

// HandlePutSkill handles PUT /skills/{id} requests.
func (h *SkillsHandler) HandlePutSkill(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_skill"
	var req gradeRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeKindError(w, err)
		return
	}
	g, err := grade.Parse(req.Grade)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	e, err := h.deps.SetGrade(r.Context(), r.PathValue("id"), g)
	switch {
	case errors.Is(err, scoring.ErrUnknownSkill):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	case errors.Is(err, grade.ErrUnknownGrade):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, skillScore{SkillEvaluation: e, Score: e.Score()})
}
