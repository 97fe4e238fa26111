package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/migrations"
)

// DB wraps a database connection with the dialect-specific pieces the
// repositories need: a squirrel builder with the right placeholder format
// and an error classifier.
type DB struct {
	*sql.DB
	dialect            string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func newDB(conn *sql.DB, dialect string, log *logger.Logger) (*DB, error) {
	db := &DB{DB: conn, dialect: dialect, logger: log}
	switch dialect {
	case migrations.DialectPostgres:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
		db.errorClassificator = NewPostgresErrorClassifier()
	case migrations.DialectSQLite:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
		db.errorClassificator = NewSQLiteErrorClassifier()
	default:
		return nil, ErrUnknownDialect
	}
	return db, nil
}

// Dialect returns the goose dialect name of the connection.
func (db *DB) Dialect() string {
	return db.dialect
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}
