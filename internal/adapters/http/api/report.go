package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/archer/internal/domain/verdict"
	"github.com/okian/archer/internal/report"
)

// ReportDependencies defines the verdict and report operations.
type ReportDependencies interface {
	Verdict(ctx context.Context) verdict.Verdict
	Classify(score int) verdict.Verdict
	Report(ctx context.Context) report.Report
}

// ReportHandler handles verdict and report requests.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleGetVerdict handles GET /verdict requests. With ?score=N it
// classifies N instead of the session total.
func (h *ReportHandler) HandleGetVerdict(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_verdict"
	raw := r.URL.Query().Get("score")
	if raw == "" {
		writeJSON(w, http.StatusOK, h.deps.Verdict(r.Context()))
		return
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, fmt.Errorf("score must be an integer: %q", raw)))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Classify(score))
}

// HandleGetReport handles GET /report requests.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Report(r.Context()))
}
