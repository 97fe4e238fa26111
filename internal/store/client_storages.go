package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
)

// ClientStorages groups the CLI's local repositories. In local mode the
// bundles live in a SQLite file next to the user; nothing leaves the
// machine.
type ClientStorages struct {
	// BundleStorage is the SQLite-backed bundle repository.
	BundleStorage BundleStorage

	db *DB
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.Local.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [ClientStorages] value wired to a fresh
//     bundle repository.
func NewClientStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Debug().Msg("creating client storages...")

	db, err := NewConnectSQLite(ctx, cfg.Local, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		BundleStorage: NewBundleRepository(db, logger),
		db:            db,
	}, nil
}

// Close releases the database connection.
func (s *ClientStorages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
