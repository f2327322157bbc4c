package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// User is a registered account. PasswordHash is never exposed over the API.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Create registers a user. Email uniqueness is checked before username
// uniqueness; a race lost at insert time is mapped from the violated index.
func (s *UserStore) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`), email); err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrEmailTaken
	}
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM users WHERE username = ?`), username); err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrUsernameTaken
	}

	id, err := insertReturningID(ctx, tx, `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		username, email, passwordHash, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			if strings.Contains(strings.ToLower(err.Error()), "email") {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the user with id, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.getBy(ctx, "id", id)
}

// GetByEmail returns the user matching email, or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.getBy(ctx, "email", email)
}

// GetByUsername returns the user matching username, or ErrNotFound.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.getBy(ctx, "username", username)
}

func (s *UserStore) getBy(ctx context.Context, column string, value any) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE `+column+` = ?`), value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Count returns the number of registered users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}
