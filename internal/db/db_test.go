package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/joe-bookmarks/internal/db"
	"github.com/joestump/joe-bookmarks/internal/testutil"
)

func TestGooseDialect(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"sqlite3", "sqlite3"},
		{"postgres", "postgres"},
		{"pgx", "postgres"},
		{"mysql", "mysql"},
	}
	for _, tt := range tests {
		got, err := db.GooseDialect(tt.driver)
		require.NoError(t, err, tt.driver)
		assert.Equal(t, tt.want, got)
	}

	_, err := db.GooseDialect("oracle")
	assert.Error(t, err)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := db.New("oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported DB driver")
}

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want []string
	}{
		{"bare", "bookmarks:pw@tcp(localhost:3306)/bookmarks", []string{"parseTime=true", "tcp(localhost:3306)/bookmarks"}},
		{"keeps params", "bookmarks:pw@tcp(db:3306)/bookmarks?charset=utf8mb4", []string{"parseTime=true", "charset=utf8mb4"}},
		{"overrides false", "bookmarks:pw@tcp(db:3306)/bookmarks?parseTime=false", []string{"parseTime=true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.MySQLDSN(tt.dsn)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			assert.NotContains(t, got, "parseTime=false")
		})
	}

	_, err := db.MySQLDSN("bookmarks:pw@tcp(db:3306)bookmarks")
	assert.ErrorContains(t, err, "parse mysql dsn")
}

func TestNew_MySQLEnablesParseTime(t *testing.T) {
	// sql.Open does not dial, so no server is needed.
	conn, err := db.New("mysql", "bookmarks:pw@tcp(127.0.0.1:1)/bookmarks")
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, "mysql", conn.DriverName())
}

func TestMigrate_CreatesSchema(t *testing.T) {
	conn := testutil.NewTestDB(t)

	var tables []string
	err := conn.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'bookmarks') ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"bookmarks", "users"}, tables)

	// Re-running is a no-op.
	require.NoError(t, db.Migrate(conn, "sqlite3"))
}

func TestNew_SQLiteFile(t *testing.T) {
	dsn := "file:" + t.TempDir() + "/bookmarks.db"
	conn, err := db.New("sqlite3", dsn)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, db.Migrate(conn, "sqlite3"))

	var fk int
	require.NoError(t, conn.Get(&fk, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, fk)
}
