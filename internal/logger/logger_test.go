package logger_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joestump/joe-bookmarks/internal/logger"
)

func TestNew_Levels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		log, err := logger.New(lvl)
		require.NoError(t, err, lvl)
		require.NotNil(t, log)
	}

	_, err := logger.New("loud")
	assert.Error(t, err)
}

func TestMiddleware_LogsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	h := logger.Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pot", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "client error", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/pot", fields["path"])
	assert.Equal(t, int64(len("short and stout")), fields["size"])
}

func TestRecoverer_JSON500(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	log := zap.New(core)

	h := logger.Recoverer(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"INTERNAL_ERROR"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "boom")
	assert.Equal(t, 1, logs.Len())
}
