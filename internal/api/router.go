// Package api serves the JSON API mounted at /api/v1: account registration,
// token issuance and ownership-scoped bookmark management.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/auth"
	"github.com/joestump/joe-bookmarks/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Auth      *auth.Middleware
	Tokens    *auth.TokenService
	Users     *store.UserStore
	Bookmarks *store.BookmarkStore
	Log       *zap.Logger
}

// NewAPIRouter creates a chi sub-router for /api/v1. Auth endpoints are
// public except /auth/me and /auth/refresh; every bookmark route requires an
// access token.
func NewAPIRouter(deps Deps) chi.Router {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(jsonContentType)
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	registerAuthRoutes(r, deps)
	registerBookmarkRoutes(r, deps)

	return r
}

// NotFound answers unmatched routes with a JSON 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
}

// MethodNotAllowed answers a known route hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed", "METHOD_NOT_ALLOWED")
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
