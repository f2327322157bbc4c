// Package migrations contains dialect-aware Go database migrations. Column
// types for auto-increment keys and timestamps differ between SQLite,
// PostgreSQL and MySQL, so the schema is expressed per dialect in Go rather
// than as a single SQL file.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}
