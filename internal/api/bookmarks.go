package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/auth"
	"github.com/joestump/joe-bookmarks/internal/metrics"
	"github.com/joestump/joe-bookmarks/internal/store"
)

// bookmarksAPIHandler provides REST handlers for bookmark management. Every
// route is scoped to the authenticated user.
type bookmarksAPIHandler struct {
	bookmarks *store.BookmarkStore
	log       *zap.Logger
}

func registerBookmarkRoutes(r chi.Router, deps Deps) {
	h := &bookmarksAPIHandler{bookmarks: deps.Bookmarks, log: deps.Log}
	r.Route("/bookmarks", func(r chi.Router) {
		r.Use(deps.Auth.RequireAccess)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/stats", h.Stats)
		r.Get("/{id:[0-9]+}", h.Get)
		r.Put("/{id:[0-9]+}", h.Update)
		r.Patch("/{id:[0-9]+}", h.Update)
		r.Delete("/{id:[0-9]+}", h.Delete)
	})
}

// List returns one page of the caller's bookmarks.
// GET /api/v1/bookmarks/?page=&per_page=
//
// @Summary      List bookmarks
// @Description  Returns one page of the caller's bookmarks ordered by id.
// @Tags         Bookmarks
// @Produce      json
// @Param        page      query     int  false  "Page number (default 1)"
// @Param        per_page  query     int  false  "Page size (default 10, max 100)"
// @Success      200       {object}  BookmarkListResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      500       {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/ [get]
func (h *bookmarksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	page, perPage := parsePage(r)
	items, meta, err := h.bookmarks.List(r.Context(), user.ID, page, perPage)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	resp := BookmarkListResponse{
		Data: make([]BookmarkResponse, 0, len(items)),
		Meta: toPageMeta(meta),
	}
	for _, b := range items {
		resp.Data = append(resp.Data, toBookmarkResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create stores a bookmark and assigns its short code.
// POST /api/v1/bookmarks/
//
// @Summary      Create a bookmark
// @Description  The URL must be an absolute http(s) URL not yet stored by any user.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        body  body      BookmarkRequest  true  "Bookmark"
// @Success      201   {object}  BookmarkResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/ [post]
func (h *bookmarksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req BookmarkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.bookmarks.Create(r.Context(), user.ID, req.URL, req.Body)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	metrics.BookmarksCreatedTotal.Inc()
	h.log.Debug("bookmark created",
		zap.Int64("user_id", user.ID),
		zap.Int64("bookmark_id", b.ID),
		zap.String("short_code", b.ShortCode),
	)
	writeJSON(w, http.StatusCreated, toBookmarkResponse(b))
}

// Get returns one of the caller's bookmarks.
// GET /api/v1/bookmarks/{id}
//
// @Summary      Get a bookmark
// @Tags         Bookmarks
// @Produce      json
// @Param        id   path      int  true  "Bookmark ID"
// @Success      200  {object}  BookmarkResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [get]
func (h *bookmarksAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}

	b, err := h.bookmarks.Get(r.Context(), user.ID, id)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookmarkResponse(b))
}

// Update replaces url and body. PUT and PATCH behave identically.
// PUT|PATCH /api/v1/bookmarks/{id}
//
// @Summary      Update a bookmark
// @Description  Replaces url and body. The short code never changes. PATCH behaves the same.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Bookmark ID"
// @Param        body  body      BookmarkRequest  true  "Bookmark"
// @Success      200   {object}  BookmarkResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [put]
func (h *bookmarksAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}

	var req BookmarkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.bookmarks.Update(r.Context(), user.ID, id, req.URL, req.Body)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookmarkResponse(b))
}

// Delete removes one of the caller's bookmarks.
// DELETE /api/v1/bookmarks/{id}
//
// @Summary      Delete a bookmark
// @Tags         Bookmarks
// @Param        id   path  int  true  "Bookmark ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [delete]
func (h *bookmarksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}

	if err := h.bookmarks.Delete(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns visit counts for all of the caller's bookmarks.
// GET /api/v1/bookmarks/stats
//
// @Summary      Visit statistics
// @Description  Visit counts for every bookmark the caller owns.
// @Tags         Bookmarks
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Failure      401  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/stats [get]
func (h *bookmarksAPIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	stats, err := h.bookmarks.Stats(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	resp := StatsResponse{Data: make([]StatResponse, 0, len(stats))}
	for _, s := range stats {
		resp.Data = append(resp.Data, StatResponse{
			ID:        s.ID,
			URL:       s.URL,
			ShortCode: s.ShortCode,
			Visits:    s.Visits,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// bookmarkID parses the {id} URL parameter. The route pattern already
// restricts it to digits; overflow is still possible.
func bookmarkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "bookmark not found", "NOT_FOUND")
		return 0, false
	}
	return id, true
}
