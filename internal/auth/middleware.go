package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/metrics"
	"github.com/joestump/joe-bookmarks/internal/store"
)

type contextKey string

// UserContextKey holds the authenticated *store.User on the request context.
const UserContextKey contextKey = "user"

// UserFromContext returns the authenticated user, or nil outside a protected
// route.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}

// UserLookup loads the account a token was issued for.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*store.User, error)
}

// Middleware authenticates API requests via Bearer token.
type Middleware struct {
	tokens *TokenService
	users  UserLookup
	log    *zap.Logger
}

func NewMiddleware(tokens *TokenService, users UserLookup, log *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, log: log}
}

// RequireAccess admits requests carrying a valid access token.
func (m *Middleware) RequireAccess(next http.Handler) http.Handler {
	return m.require(ClassAccess, next)
}

// RequireRefresh admits requests carrying a valid refresh token.
func (m *Middleware) RequireRefresh(next http.Handler) http.Handler {
	return m.require(ClassRefresh, next)
}

func (m *Middleware) require(class TokenClass, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			m.reject(w, "missing")
			return
		}

		userID, err := m.tokens.Verify(token, class)
		if err != nil {
			m.log.Debug("token rejected", zap.String("class", string(class)), zap.Error(err))
			m.reject(w, failureReason(err))
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if errors.Is(err, store.ErrNotFound) {
			m.reject(w, "unknown_user")
			return
		}
		if err != nil {
			m.log.Error("load token user", zap.Int64("user_id", userID), zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) reject(w http.ResponseWriter, reason string) {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	writeJSONError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenWrongType):
		return "wrong_type"
	default:
		return "invalid"
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}
