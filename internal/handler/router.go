// Package handler assembles the root HTTP router: the JSON API under /api/v1,
// its Swagger UI, Prometheus metrics and the public short-code redirect.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/joestump/joe-bookmarks/docs/swagger"
	"github.com/joestump/joe-bookmarks/internal/api"
	"github.com/joestump/joe-bookmarks/internal/auth"
	"github.com/joestump/joe-bookmarks/internal/logger"
	"github.com/joestump/joe-bookmarks/internal/shortcode"
	"github.com/joestump/joe-bookmarks/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Log       *zap.Logger
	Tokens    *auth.TokenService
	Users     *store.UserStore
	Bookmarks *store.BookmarkStore
	Codes     *shortcode.Generator
}

// NewRouter assembles the full chi router with all middleware and routes.
// Named routes are registered before the catch-all code resolver.
func NewRouter(deps Deps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(deps.Log))
	r.Use(logger.Recoverer(deps.Log))

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI, no auth required. Must be before the code catch-all.
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	// API sub-router at /api/v1, must be before the code catch-all.
	r.Mount("/api/v1", api.NewAPIRouter(api.Deps{
		Auth:      auth.NewMiddleware(deps.Tokens, deps.Users, deps.Log),
		Tokens:    deps.Tokens,
		Users:     deps.Users,
		Bookmarks: deps.Bookmarks,
		Log:       deps.Log,
	}))

	// Code resolver: catch-all, must be last. No auth required.
	resolver := NewResolveHandler(deps.Bookmarks, deps.Codes, deps.Log)
	r.Get("/{code}", resolver.Resolve)

	return r
}

// writeJSONError writes a JSON error response with the given HTTP status code.
func writeJSONError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
