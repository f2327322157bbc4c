package api

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/auth"
	"github.com/joestump/joe-bookmarks/internal/store"
)

const (
	minPasswordLen = 6
	minUsernameLen = 3
)

var validate = validator.New()

// authAPIHandler serves registration, login and token refresh.
type authAPIHandler struct {
	users  *store.UserStore
	tokens *auth.TokenService
	log    *zap.Logger
}

func registerAuthRoutes(r chi.Router, deps Deps) {
	h := &authAPIHandler{users: deps.Users, tokens: deps.Tokens, log: deps.Log}
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.With(deps.Auth.RequireAccess).Get("/auth/me", h.Me)
	r.With(deps.Auth.RequireRefresh).Post("/auth/refresh", h.Refresh)
}

// Register creates an account. Checks run in a fixed order and the first
// failure is reported. Minimum lengths count characters, not bytes.
// POST /api/v1/auth/register
//
// @Summary      Register an account
// @Description  Username must be at least 3 alphanumeric characters and the password at least 6 characters. Email and username are unique.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Account details"
// @Success      201   {object}  RegisterResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *authAPIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch {
	case utf8.RuneCountInString(req.Password) < minPasswordLen:
		writeError(w, http.StatusBadRequest, "password too short", "BAD_REQUEST")
		return
	case utf8.RuneCountInString(req.Username) < minUsernameLen:
		writeError(w, http.StatusBadRequest, "username too short", "BAD_REQUEST")
		return
	case validate.Var(req.Username, "alphanum") != nil:
		writeError(w, http.StatusBadRequest, "username must be alphanumeric", "BAD_REQUEST")
		return
	case validate.Var(req.Email, "required,email") != nil:
		writeError(w, http.StatusBadRequest, "email is not valid", "BAD_REQUEST")
		return
	}

	// Surface uniqueness conflicts before paying for the hash.
	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		writeDomainError(w, h.log, store.ErrEmailTaken)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeDomainError(w, h.log, err)
		return
	}
	if _, err := h.users.GetByUsername(r.Context(), req.Username); err == nil {
		writeDomainError(w, h.log, store.ErrUsernameTaken)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeDomainError(w, h.log, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	u, err := h.users.Create(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	h.log.Info("user registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	writeJSON(w, http.StatusCreated, RegisterResponse{
		Message: "user created",
		User:    UserResponse{Username: u.Username, Email: u.Email},
	})
}

// Login exchanges email and password for an access and refresh token pair.
// Unknown email and wrong password are indistinguishable to the caller.
// POST /api/v1/auth/login
//
// @Summary      Log in
// @Description  Exchanges email and password for an access token and a refresh token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  LoginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *authAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if validate.Var(req.Email, "required,email") != nil || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid credentials", "BAD_REQUEST")
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeDomainError(w, h.log, err)
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials", "UNAUTHORIZED")
		return
	}

	access, err := h.tokens.IssueAccessToken(u.ID)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	refresh, err := h.tokens.IssueRefreshToken(u.ID)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{User: LoginUser{
		Username:     u.Username,
		Email:        u.Email,
		AccessToken:  access,
		RefreshToken: refresh,
	}})
}

// Me returns the caller's account.
// GET /api/v1/auth/me
//
// @Summary      Current account
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /auth/me [get]
func (h *authAPIHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{Username: user.Username, Email: user.Email})
}

// Refresh issues a new access token for the holder of a refresh token. The
// refresh token itself stays valid until it expires.
// POST /api/v1/auth/refresh
//
// @Summary      Refresh the access token
// @Description  Authenticate with the refresh token, not the access token.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  RefreshResponse
// @Failure      401  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /auth/refresh [post]
func (h *authAPIHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}
	access, err := h.tokens.IssueAccessToken(user.ID)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshResponse{AccessToken: access})
}
