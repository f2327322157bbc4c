package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/metrics"
	"github.com/joestump/joe-bookmarks/internal/shortcode"
	"github.com/joestump/joe-bookmarks/internal/store"
	dbtest "github.com/joestump/joe-bookmarks/internal/testutil"
)

type resolveTestEnv struct {
	bs     *store.BookmarkStore
	rh     *ResolveHandler
	userID int64
}

// newResolveTestEnv sets up a BookmarkStore and ResolveHandler backed by an
// in-memory SQLite database with all migrations applied.
func newResolveTestEnv(t *testing.T) *resolveTestEnv {
	t.Helper()
	db := dbtest.NewTestDB(t)
	codes := shortcode.New()
	bs := store.NewBookmarkStore(db, codes)
	us := store.NewUserStore(db)

	u, err := us.Create(context.Background(), "tester", "test@example.com", "hash")
	require.NoError(t, err)

	return &resolveTestEnv{bs: bs, rh: NewResolveHandler(bs, codes, zap.NewNop()), userID: u.ID}
}

func (e *resolveTestEnv) seed(t *testing.T, url string) *store.Bookmark {
	t.Helper()
	b, err := e.bs.Create(context.Background(), e.userID, url, "")
	require.NoError(t, err)
	return b
}

// resolve builds a chi-routed request and records the response.
func resolve(h *ResolveHandler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/{code}", h.Resolve)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestResolve_Redirects(t *testing.T) {
	env := newResolveTestEnv(t)
	b := env.seed(t, "https://example.com/docs")

	before := testutil.ToFloat64(metrics.RedirectsTotal.WithLabelValues("found"))

	w := resolve(env.rh, "/"+b.ShortCode)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com/docs", w.Header().Get("Location"))

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RedirectsTotal.WithLabelValues("found")))

	got, err := env.bs.Get(context.Background(), env.userID, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Visits)
}

func TestResolve_CountsEveryVisit(t *testing.T) {
	env := newResolveTestEnv(t)
	b := env.seed(t, "https://example.com")

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusFound, resolve(env.rh, "/"+b.ShortCode).Code)
	}

	got, err := env.bs.Get(context.Background(), env.userID, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.Visits)
}

func TestResolve_NotFound(t *testing.T) {
	env := newResolveTestEnv(t)
	env.seed(t, "https://example.com")

	for _, path := range []string{"/zzz", "/a-b", "/toolongcode", "/caf%C3%A9"} {
		before := testutil.ToFloat64(metrics.RedirectsTotal.WithLabelValues("not_found"))

		w := resolve(env.rh, path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"not found","code":"NOT_FOUND"}`, w.Body.String(), path)
		assert.Empty(t, w.Header().Get("Location"), path)

		assert.Equal(t, before+1, testutil.ToFloat64(metrics.RedirectsTotal.WithLabelValues("not_found")), path)
	}
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string) (string, error) {
	return "", errors.New("db down")
}

func TestResolve_StoreError(t *testing.T) {
	h := NewResolveHandler(failingResolver{}, shortcode.New(), zap.NewNop())

	w := resolve(h, "/abc")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}
