package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/archer/internal/domain/signature"
)

// SignatureDependencies defines the session methods used by signature routes.
type SignatureDependencies interface {
	Signature(ctx context.Context) string
	SetSignature(ctx context.Context, dataURL string) (string, error)
	ClearSignature(ctx context.Context)
}

// SignatureHandler handles the coach signature image.
type SignatureHandler struct {
	deps SignatureDependencies
}

// NewSignatureHandler creates a new signature handler.
func NewSignatureHandler(deps SignatureDependencies) *SignatureHandler {
	return &SignatureHandler{deps: deps}
}

// signatureBody carries the signature as an image data URL. Empty means
// no signature.
type signatureBody struct {
	Signature string `json:"signature"`
}

// HandleGetSignature handles GET /signature requests.
func (h *SignatureHandler) HandleGetSignature(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, signatureBody{Signature: h.deps.Signature(r.Context())})
}

// HandlePutSignature handles PUT /signature requests.
func (h *SignatureHandler) HandlePutSignature(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_signature"
	var req signatureBody
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeKindError(w, err)
		return
	}
	stored, err := h.deps.SetSignature(r.Context(), req.Signature)
	switch {
	case errors.Is(err, signature.ErrSignatureTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "signature_too_large", err)
		return
	case err != nil:
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, signatureBody{Signature: stored})
}

// HandleDeleteSignature handles DELETE /signature requests.
func (h *SignatureHandler) HandleDeleteSignature(w http.ResponseWriter, r *http.Request) {
	h.deps.ClearSignature(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
