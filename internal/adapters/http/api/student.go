package api

import (
	"context"
	"net/http"

	"github.com/okian/archer/internal/domain/model"
)

// StudentDependencies defines the session selection operations.
type StudentDependencies interface {
	Student(ctx context.Context) model.Student
	SetStudentName(ctx context.Context, name string) model.Student
	SelectCoach(ctx context.Context, coach string) model.Student
	SelectBatch(ctx context.Context, batch string) model.Student
	Review(ctx context.Context) string
	SetReview(ctx context.Context, text string) string
}

// StudentHandler handles student selection and review requests.
type StudentHandler struct {
	deps StudentDependencies
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(deps StudentDependencies) *StudentHandler {
	return &StudentHandler{deps: deps}
}

// studentRequest carries optional fields; absent fields are left as they are.
type studentRequest struct {
	Name  *string `json:"name"`
	Coach *string `json:"coach"`
	Batch *string `json:"batch"`
}

type reviewBody struct {
	Text string `json:"text"`
}

// HandleGetStudent handles GET /student requests.
func (h *StudentHandler) HandleGetStudent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Student(r.Context()))
}

// HandlePutStudent handles PUT /student requests. Fields are applied as
// name, coach, batch so a coach change clears the batch before a new one
// is selected.
func (h *StudentHandler) HandlePutStudent(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_student"
	var req studentRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeKindError(w, err)
		return
	}
	ctx := r.Context()
	if req.Name != nil {
		h.deps.SetStudentName(ctx, *req.Name)
	}
	if req.Coach != nil {
		h.deps.SelectCoach(ctx, *req.Coach)
	}
	if req.Batch != nil {
		h.deps.SelectBatch(ctx, *req.Batch)
	}
	writeJSON(w, http.StatusOK, h.deps.Student(ctx))
}

// HandleGetReview handles GET /review requests.
func (h *StudentHandler) HandleGetReview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, reviewBody{Text: h.deps.Review(r.Context())})
}

// HandlePutReview handles PUT /review requests. The stored text may be
// shorter than the request when it exceeds the review limit.
func (h *StudentHandler) HandlePutReview(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_review"
	var req reviewBody
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewBody{Text: h.deps.SetReview(r.Context(), req.Text)})
}
