// Package site renders the printable one-page report.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/archer/internal/report"
)

// Error constants.
var (
	ErrRender = errors.New("report page render failed")
)

// ReportSource builds the report the page shows.
type ReportSource interface {
	Report(ctx context.Context) report.Report
}

// Register attaches the report page to the site root.
func Register(_ context.Context, mux *http.ServeMux, src ReportSource) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", NewRootHandler(src).HandleRoot)
}

// RootHandler handles root path requests.
type RootHandler struct {
	src ReportSource
}

// NewRootHandler creates a new root handler.
func NewRootHandler(src ReportSource) *RootHandler {
	return &RootHandler{src: src}
}

// HandleRoot handles GET / requests with the current session's report.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, h.src.Report(r.Context())); err != nil {
		http.Error(w, fmt.Errorf("%w: %w", ErrRender, err).Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
