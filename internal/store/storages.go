package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
)

// Storages groups the server-side repositories.
type Storages struct {
	BundleStorage BundleStorage

	db *DB
}

// NewStorages connects to PostgreSQL, runs migrations and wires the
// repositories.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		BundleStorage: NewBundleRepository(db, logger),
		db:            db,
	}, nil
}

// Close releases the database connection.
func (s *Storages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
