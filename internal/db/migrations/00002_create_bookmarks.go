package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateBookmarks, downCreateBookmarks)
}

// url is indexed but not unique: creation rejects duplicates, updates may
// introduce them. MySQL cannot index TEXT without a prefix length, so it uses
// VARCHAR there.
func upCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id         BIGSERIAL PRIMARY KEY,
    body       TEXT NOT NULL DEFAULT '',
    url        TEXT NOT NULL,
    short_code VARCHAR(16) NOT NULL UNIQUE,
    visits     BIGINT NOT NULL DEFAULT 0 CHECK (visits >= 0),
    user_id    BIGINT NOT NULL REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id         BIGINT AUTO_INCREMENT PRIMARY KEY,
    body       TEXT NOT NULL,
    url        VARCHAR(2048) NOT NULL,
    short_code VARCHAR(16) CHARACTER SET ascii COLLATE ascii_bin NOT NULL UNIQUE,
    visits     BIGINT NOT NULL DEFAULT 0,
    user_id    BIGINT NOT NULL,
    created_at DATETIME(6) NOT NULL,
    updated_at DATETIME(6) NOT NULL,
    KEY bookmarks_url_idx (url(768)),
    CONSTRAINT bookmarks_user_fk FOREIGN KEY (user_id) REFERENCES users(id)
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    body       TEXT NOT NULL DEFAULT '',
    url        TEXT NOT NULL,
    short_code TEXT NOT NULL UNIQUE,
    visits     INTEGER NOT NULL DEFAULT 0 CHECK (visits >= 0),
    user_id    INTEGER NOT NULL REFERENCES users(id),
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create bookmarks table: %w", err)
	}
	if dialect != "mysql" {
		if _, err := tx.ExecContext(ctx, `CREATE INDEX bookmarks_url_idx ON bookmarks (url)`); err != nil {
			return fmt.Errorf("create bookmarks url index: %w", err)
		}
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX bookmarks_user_id_idx ON bookmarks (user_id, id)`)
	return err
}

func downCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS bookmarks`)
	return err
}
