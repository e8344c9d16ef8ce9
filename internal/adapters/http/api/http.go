// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the session implementation.
type Dependencies interface {
	RosterDependencies
	SkillDependencies
	StudentDependencies
	SignatureDependencies
	ReportDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	rosterHandler    *RosterHandler
	skillsHandler    *SkillsHandler
	studentHandler   *StudentHandler
	signatureHandler *SignatureHandler
	reportHandler    *ReportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		rosterHandler:    NewRosterHandler(deps),
		skillsHandler:    NewSkillsHandler(deps),
		studentHandler:   NewStudentHandler(deps),
		signatureHandler: NewSignatureHandler(deps),
		reportHandler:    NewReportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /roster", MetricsMiddleware(s.rosterHandler.HandleGetRoster, "roster"))
	mux.HandleFunc("POST /roster/coaches", MetricsMiddleware(s.rosterHandler.HandlePostCoach, "roster_coaches"))
	mux.HandleFunc("POST /roster/batches", MetricsMiddleware(s.rosterHandler.HandlePostBatch, "roster_batches"))
	mux.HandleFunc("GET /levels", MetricsMiddleware(s.rosterHandler.HandleGetLevels, "levels"))

	mux.HandleFunc("GET /grades", MetricsMiddleware(s.skillsHandler.HandleGetGrades, "grades"))
	mux.HandleFunc("GET /skills", MetricsMiddleware(s.skillsHandler.HandleGetSkills, "skills"))
	mux.HandleFunc("PUT /skills/{id}", MetricsMiddleware(s.skillsHandler.HandlePutSkill, "skill"))

	mux.HandleFunc("GET /student", MetricsMiddleware(s.studentHandler.HandleGetStudent, "student"))
	mux.HandleFunc("PUT /student", MetricsMiddleware(s.studentHandler.HandlePutStudent, "student"))
	mux.HandleFunc("GET /review", MetricsMiddleware(s.studentHandler.HandleGetReview, "review"))
	mux.HandleFunc("PUT /review", MetricsMiddleware(s.studentHandler.HandlePutReview, "review"))

	mux.HandleFunc("GET /signature", MetricsMiddleware(s.signatureHandler.HandleGetSignature, "signature"))
	mux.HandleFunc("PUT /signature", MetricsMiddleware(s.signatureHandler.HandlePutSignature, "signature"))
	mux.HandleFunc("DELETE /signature", MetricsMiddleware(s.signatureHandler.HandleDeleteSignature, "signature"))

	mux.HandleFunc("GET /verdict", MetricsMiddleware(s.reportHandler.HandleGetVerdict, "verdict"))
	mux.HandleFunc("GET /report", MetricsMiddleware(s.reportHandler.HandleGetReport, "report"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a single JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, fmt.Errorf("invalid JSON body: %w", err))
	}
	return nil
}

// writeKindError maps an API error kind to its status and code.
func writeKindError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
