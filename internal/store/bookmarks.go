package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/joestump/joe-bookmarks/internal/shortcode"
)

// createAttempts bounds how often Create restarts after losing a short-code
// race at insert time.
const createAttempts = 3

var errCodeCollision = errors.New("short code collision")

// Bookmark represents a row in the bookmarks table.
type Bookmark struct {
	ID        int64     `db:"id"`
	Body      string    `db:"body"`
	URL       string    `db:"url"`
	ShortCode string    `db:"short_code"`
	Visits    int64     `db:"visits"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BookmarkStat is the per-bookmark visit summary returned by Stats.
type BookmarkStat struct {
	ID        int64  `db:"id"`
	URL       string `db:"url"`
	ShortCode string `db:"short_code"`
	Visits    int64  `db:"visits"`
}

const bookmarkColumns = `id, body, url, short_code, visits, user_id, created_at, updated_at`

// BookmarkStore holds bookmarks. Every read and write except Resolve is
// scoped to the owning user.
type BookmarkStore struct {
	db    *sqlx.DB
	codes *shortcode.Generator

	// codeTaken answers the generator's collision lookups inside the create
	// transaction.
	codeTaken func(ctx context.Context, q queryer, code string) (bool, error)
}

func NewBookmarkStore(db *sqlx.DB, codes *shortcode.Generator) *BookmarkStore {
	return &BookmarkStore{db: db, codes: codes, codeTaken: shortCodeExists}
}

func (s *BookmarkStore) q(query string) string { return s.db.Rebind(query) }

// Create stores url for userID under a freshly generated short code. URLs are
// unique across all users at creation time. The URL check, code generation and
// insert share one transaction; losing a short-code race to a concurrent
// writer restarts it.
func (s *BookmarkStore) Create(ctx context.Context, userID int64, url, body string) (*Bookmark, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}
	for i := 0; i < createAttempts; i++ {
		b, err := s.create(ctx, userID, url, body)
		if errors.Is(err, errCodeCollision) {
			continue
		}
		return b, err
	}
	return nil, shortcode.ErrExhausted
}

func (s *BookmarkStore) create(ctx context.Context, userID int64, url, body string) (*Bookmark, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	taken, err := urlExists(ctx, tx, url)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrURLTaken
	}

	code, err := s.codes.Generate(ctx, func(ctx context.Context, code string) (bool, error) {
		return s.codeTaken(ctx, tx, code)
	})
	if err != nil {
		return nil, err
	}

	id, err := insertReturningID(ctx, tx, `
		INSERT INTO bookmarks (body, url, short_code, visits, user_id, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?, ?)`,
		body, url, code, userID, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, errCodeCollision
		}
		return nil, err
	}

	b, err := getBookmark(ctx, tx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns one page of userID's bookmarks ordered by id. Pages past the
// end are empty but still report the real total.
func (s *BookmarkStore) List(ctx context.Context, userID int64, page, perPage int) ([]*Bookmark, Page, error) {
	page, perPage = normalizePage(page, perPage)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, Page{}, err
	}
	defer tx.Rollback()

	var total int
	if err := tx.GetContext(ctx, &total, tx.Rebind(`SELECT COUNT(*) FROM bookmarks WHERE user_id = ?`), userID); err != nil {
		return nil, Page{}, err
	}

	p := newPage(page, perPage, total)
	bookmarks := []*Bookmark{}
	// The offset is only computed for pages that exist, so it cannot overflow.
	if page <= p.Pages {
		err = tx.SelectContext(ctx, &bookmarks, tx.Rebind(`
			SELECT `+bookmarkColumns+` FROM bookmarks
			WHERE user_id = ?
			ORDER BY id ASC
			LIMIT ? OFFSET ?`), userID, perPage, (page-1)*perPage)
		if err != nil {
			return nil, Page{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, Page{}, err
	}
	return bookmarks, p, nil
}

// Get returns bookmark id if userID owns it, or ErrNotFound.
func (s *BookmarkStore) Get(ctx context.Context, userID, id int64) (*Bookmark, error) {
	return getBookmark(ctx, s.db, userID, id)
}

// Update replaces url and body of a bookmark userID owns. The short code and
// owner never change, and URL uniqueness is not re-checked.
func (s *BookmarkStore) Update(ctx context.Context, userID, id int64, url, body string) (*Bookmark, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Ownership is checked before the payload, so a missing or foreign id is a
	// 404 whatever the URL.
	if _, err := getBookmark(ctx, tx, userID, id); err != nil {
		return nil, err
	}
	if err := ValidateURL(url); err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE bookmarks SET url = ?, body = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`),
		url, body, time.Now().UTC(), id, userID)
	if err != nil {
		return nil, err
	}
	b, err := getBookmark(ctx, tx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a bookmark userID owns. Deleting twice yields ErrNotFound.
func (s *BookmarkStore) Delete(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM bookmarks WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns visit counts for every bookmark userID owns, ordered by id.
func (s *BookmarkStore) Stats(ctx context.Context, userID int64) ([]BookmarkStat, error) {
	stats := []BookmarkStat{}
	err := s.db.SelectContext(ctx, &stats, s.q(`
		SELECT id, url, short_code, visits FROM bookmarks
		WHERE user_id = ?
		ORDER BY id ASC`), userID)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Resolve increments the visit counter of the bookmark with code by exactly
// one and returns its URL. The increment is a single-row atomic UPDATE, so
// concurrent resolutions are never lost.
func (s *BookmarkStore) Resolve(ctx context.Context, code string) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE bookmarks SET visits = visits + 1 WHERE short_code = ?`), code)
	if err != nil {
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrNotFound
	}

	var url string
	if err := tx.GetContext(ctx, &url, tx.Rebind(`SELECT url FROM bookmarks WHERE short_code = ?`), code); err != nil {
		return "", fmt.Errorf("read resolved url: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return url, nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	Rebind(string) string
}

func urlExists(ctx context.Context, q queryer, url string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, q.Rebind(`SELECT COUNT(*) FROM bookmarks WHERE url = ?`), url)
	return n > 0, err
}

func shortCodeExists(ctx context.Context, q queryer, code string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, q.Rebind(`SELECT COUNT(*) FROM bookmarks WHERE short_code = ?`), code)
	return n > 0, err
}

func getBookmark(ctx context.Context, q queryer, userID, id int64) (*Bookmark, error) {
	var b Bookmark
	err := sqlx.GetContext(ctx, q, &b, q.Rebind(`
		SELECT `+bookmarkColumns+` FROM bookmarks
		WHERE id = ? AND user_id = ?`), id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Count returns the number of bookmarks across all users.
func (s *BookmarkStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM bookmarks`)
	return n, err
}
