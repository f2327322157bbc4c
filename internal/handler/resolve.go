package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/metrics"
	"github.com/joestump/joe-bookmarks/internal/store"
)

// Resolver turns a short code into its target URL, counting the visit.
type Resolver interface {
	Resolve(ctx context.Context, code string) (string, error)
}

// CodeValidator rejects strings that cannot be short codes.
type CodeValidator interface {
	Validate(code string) error
}

// ResolveHandler handles public short-code resolution and redirection.
type ResolveHandler struct {
	bookmarks Resolver
	codes     CodeValidator
	log       *zap.Logger
}

// NewResolveHandler creates a new ResolveHandler.
func NewResolveHandler(bookmarks Resolver, codes CodeValidator, log *zap.Logger) *ResolveHandler {
	return &ResolveHandler{bookmarks: bookmarks, codes: codes, log: log}
}

// Resolve redirects to the bookmark behind {code} with 302 Found, or answers
// with a JSON 404. Malformed codes never reach the store.
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	code := chi.URLParam(r, "code")

	if err := h.codes.Validate(code); err != nil {
		h.notFound(w)
		return
	}

	url, err := h.bookmarks.Resolve(r.Context(), code)
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		metrics.RedirectsTotal.WithLabelValues("error").Inc()
		h.log.Error("resolve short code", zap.String("code", code), zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		return
	}

	metrics.RedirectsTotal.WithLabelValues("found").Inc()
	metrics.RedirectDuration.Observe(time.Since(start).Seconds())
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *ResolveHandler) notFound(w http.ResponseWriter) {
	metrics.RedirectsTotal.WithLabelValues("not_found").Inc()
	writeJSONError(w, http.StatusNotFound, "not found", "NOT_FOUND")
}
