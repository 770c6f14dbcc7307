package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"optica-admin/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
// Returns false when decoding failed and a response was already written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// writeDomainError maps the reconciliation error taxonomy to stable codes.
// Validation and association failures are the caller's problem (422); anything
// else is treated as a storage failure.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrMissingRequiredField):
		writeError(w, r, err.Error(), "MISSING_REQUIRED_FIELD", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrInvalidAssociation):
		writeError(w, r, err.Error(), "INVALID_ASSOCIATION", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrFolioMismatch):
		writeError(w, r, err.Error(), "FOLIO_MISMATCH", http.StatusUnprocessableEntity)
	default:
		writeError(w, r, err.Error(), "STORE_FAILURE", http.StatusInternalServerError)
	}
}
