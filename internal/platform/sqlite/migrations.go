package sqlite

import (
	"database/sql"
	"embed"
	"io/fs"
	"log/slog"

	"github.com/phrazzld/hanzi-srs/internal/platform/migrate"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrations returns the SQLite schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		// ALLOW-PANIC: the embedded directory is fixed at compile time
		panic(err)
	}
	return sub
}

// NewMigrator binds the SQLite migrations to db.
func NewMigrator(db *sql.DB, logger *slog.Logger) (*migrate.Migrator, error) {
	return migrate.New(db, goose.DialectSQLite3, Migrations(), logger)
}
