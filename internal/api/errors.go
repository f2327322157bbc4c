package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/auth"
	"github.com/joestump/joe-bookmarks/internal/shortcode"
	"github.com/joestump/joe-bookmarks/internal/store"
)

// ErrorResponse is the JSON body of every error answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps store and auth errors to their HTTP status. Anything
// unrecognised is logged and reported as a generic 500.
func writeDomainError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "bookmark not found", "NOT_FOUND")
	case errors.Is(err, store.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, "invalid url", "INVALID_URL")
	case errors.Is(err, store.ErrURLTaken):
		writeError(w, http.StatusConflict, "url already exists", "CONFLICT")
	case errors.Is(err, store.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email taken", "CONFLICT")
	case errors.Is(err, store.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username taken", "CONFLICT")
	case errors.Is(err, auth.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, "password too long", "BAD_REQUEST")
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
	case errors.Is(err, shortcode.ErrExhausted):
		log.Error("short code space exhausted", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "no short code available", "UNAVAILABLE")
	default:
		log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// decodeJSON reads a JSON request body of at most 1 MiB into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return false
	}
	return true
}
