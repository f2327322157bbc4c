// Package auth issues and verifies the signed bearer tokens that gate the
// bookmark API, hashes passwords, and provides the middleware that turns a
// bearer token into an authenticated *store.User on the request context.
//
// Tokens are stateless HS256 JWTs. Two classes exist: short-lived access
// tokens accepted by protected endpoints, and long-lived refresh tokens
// accepted only by the refresh endpoint. Refreshing does not rotate or revoke
// the refresh token.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenClass distinguishes access tokens from refresh tokens.
type TokenClass string

const (
	ClassAccess  TokenClass = "access"
	ClassRefresh TokenClass = "refresh"
)

var (
	// ErrUnauthenticated is wrapped by every token and credential failure.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrTokenExpired   = fmt.Errorf("%w: token expired", ErrUnauthenticated)
	ErrTokenInvalid   = fmt.Errorf("%w: token invalid", ErrUnauthenticated)
	ErrTokenWrongType = fmt.Errorf("%w: wrong token type", ErrUnauthenticated)
)

// Claims are the JWT claims carried by both token classes. Subject holds the
// decimal user id.
type Claims struct {
	jwt.RegisteredClaims
	Type TokenClass `json:"type"`
}

// TokenService signs and verifies tokens with a single shared secret.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueAccessToken returns a signed access token for userID.
func (s *TokenService) IssueAccessToken(userID int64) (string, error) {
	return s.issue(userID, ClassAccess, s.accessTTL)
}

// IssueRefreshToken returns a signed refresh token for userID.
func (s *TokenService) IssueRefreshToken(userID int64) (string, error) {
	return s.issue(userID, ClassRefresh, s.refreshTTL)
}

func (s *TokenService) issue(userID int64, class TokenClass, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Type: class,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", class, err)
	}
	return signed, nil
}

// Verify checks the signature, validity window and class of token and
// returns the user id it was issued for.
func (s *TokenService) Verify(token string, class TokenClass) (int64, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	now := s.now()
	if claims.ExpiresAt == nil || !claims.VerifyExpiresAt(now, true) {
		return 0, ErrTokenExpired
	}
	if !claims.VerifyNotBefore(now, false) {
		return 0, ErrTokenInvalid
	}
	if claims.Type != class {
		return 0, ErrTokenWrongType
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrTokenInvalid, claims.Subject)
	}
	return userID, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *TokenService) Refresh(refreshToken string) (string, error) {
	userID, err := s.Verify(refreshToken, ClassRefresh)
	if err != nil {
		return "", err
	}
	return s.IssueAccessToken(userID)
}
