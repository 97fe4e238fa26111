// Package migrations embeds the goose schema migrations for both supported
// databases.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

// Dialects accepted by [Migrate]. They double as goose dialect names and as
// the migration directory names.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

var (
	//go:embed postgres/*.sql sqlite/*.sql
	embedMigrations embed.FS

	// goose keeps dialect and base FS in package globals
	gooseMu sync.Mutex
)

var dirs = map[string]string{
	DialectPostgres: "postgres",
	DialectSQLite:   "sqlite",
}

// Migrate applies every pending migration for dialect.
func Migrate(db *sql.DB, dialect string) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	dir, ok := dirs[dialect]
	if !ok {
		return fmt.Errorf("migration error: unsupported dialect %q", dialect)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
