// Package store is the persistence layer for users and bookmarks. Handlers
// never query the database directly; all access goes through UserStore and
// BookmarkStore.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when a requested entity does not exist or is
	// not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidURL is returned when a bookmark URL is not an absolute
	// http(s) URL with a host.
	ErrInvalidURL = errors.New("invalid url")

	// ErrURLTaken is returned when any user already stored the URL.
	ErrURLTaken = errors.New("url already exists")

	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email is taken")

	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username is taken")
)

// isUniqueConstraintError reports whether err is a unique index violation in
// any of the supported drivers.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}

// insertReturningID runs an INSERT and returns the generated id. MySQL has no
// RETURNING clause and reports the id through LastInsertId instead.
func insertReturningID(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	query = tx.Rebind(query)
	if tx.DriverName() == "mysql" {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	var id int64
	if err := tx.QueryRowxContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
