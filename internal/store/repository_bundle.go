// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/models"
)

const (
	txAttempts   = 3
	txRetryDelay = 50 * time.Millisecond
)

// bundleRepository is the database/sql implementation of [BundleStorage].
// The same code serves PostgreSQL (server) and SQLite (CLI local mode); the
// dialect only changes placeholders and error classification.
type bundleRepository struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewBundleRepository constructs a [BundleStorage] backed by db.
func NewBundleRepository(db *DB, logger *logger.Logger) BundleStorage {
	logger.Debug().Str("dialect", db.dialect).Msg("creating bundle repository")
	return &bundleRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *bundleRepository) GetKeyBundle(ctx context.Context, userID int64) (models.EncryptionKeyBundle, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.selectKeyBundleQuery(userID)
	if err != nil {
		return models.EncryptionKeyBundle{}, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var bundle models.EncryptionKeyBundle
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&bundle.Salt, &bundle.WrappedDataKey, &bundle.WrappedKeyIV)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EncryptionKeyBundle{}, ErrBundleNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*bundleRepository.GetKeyBundle").Int64("user_id", userID).Msg("error scanning key bundle")
		return models.EncryptionKeyBundle{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return bundle, nil
}

func (r *bundleRepository) SaveKeyBundle(ctx context.Context, userID int64, bundle models.EncryptionKeyBundle) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.upsertKeyBundleQuery(userID, bundle, r.now())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*bundleRepository.SaveKeyBundle").Int64("user_id", userID).Msg("error saving key bundle")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *bundleRepository) GetRecoveryBundle(ctx context.Context, userID int64) (models.RecoveryCodeBundle, error) {
	return r.getRecoveryBundle(ctx, r.db, userID)
}

func (r *bundleRepository) getRecoveryBundle(ctx context.Context, q querier, userID int64) (models.RecoveryCodeBundle, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.selectRecoveryBundleQuery(userID)
	if err != nil {
		return models.RecoveryCodeBundle{}, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var (
		bundle      models.RecoveryCodeBundle
		codeHashes  string
		wrappedKeys string
	)
	err = q.QueryRowContext(ctx, query, args...).Scan(&bundle.ID, &codeHashes, &wrappedKeys, &bundle.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RecoveryCodeBundle{}, ErrBundleNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*bundleRepository.getRecoveryBundle").Int64("user_id", userID).Msg("error scanning recovery bundle")
		return models.RecoveryCodeBundle{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err = json.Unmarshal([]byte(codeHashes), &bundle.CodeHashes); err != nil {
		return models.RecoveryCodeBundle{}, fmt.Errorf("%w: code_hashes: %w", ErrDecodingColumn, err)
	}
	if err = json.Unmarshal([]byte(wrappedKeys), &bundle.WrappedKeys); err != nil {
		return models.RecoveryCodeBundle{}, fmt.Errorf("%w: wrapped_keys: %w", ErrDecodingColumn, err)
	}

	bundle.UsedCodes, err = r.usedCodes(ctx, q, bundle.ID)
	if err != nil {
		return models.RecoveryCodeBundle{}, err
	}

	return bundle, nil
}

func (r *bundleRepository) usedCodes(ctx context.Context, q querier, bundleID string) ([]string, error) {
	query, args, err := r.db.selectRecoveryUsesQuery(bundleID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	used := make([]string, 0)
	for rows.Next() {
		var hash string
		if err = rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		used = append(used, hash)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return used, nil
}

func (r *bundleRepository) SaveRecoveryBundle(ctx context.Context, userID int64, bundle models.RecoveryCodeBundle) error {
	return r.inTx(ctx, "*bundleRepository.SaveRecoveryBundle", func(tx *sql.Tx) error {
		if err := r.deleteRecoveryBundle(ctx, tx, userID); err != nil {
			return err
		}
		return r.insertRecoveryBundle(ctx, tx, userID, bundle)
	})
}

func (r *bundleRepository) CreateBundles(ctx context.Context, userID int64, keyBundle models.EncryptionKeyBundle, recoveryBundle models.RecoveryCodeBundle) error {
	return r.inTx(ctx, "*bundleRepository.CreateBundles", func(tx *sql.Tx) error {
		query, args, err := r.db.insertKeyBundleQuery(userID, keyBundle, r.now()).ToSql()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			if r.db.errorClassificator.IsUniqueViolation(err) {
				return ErrBundleAlreadyExists
			}
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		// a recovery bundle left behind by an aborted setup is replaced
		if err = r.deleteRecoveryBundle(ctx, tx, userID); err != nil {
			return err
		}
		return r.insertRecoveryBundle(ctx, tx, userID, recoveryBundle)
	})
}

func (r *bundleRepository) ConsumeRecoveryCode(ctx context.Context, userID int64, codeHash string) error {
	return r.inTx(ctx, "*bundleRepository.ConsumeRecoveryCode", func(tx *sql.Tx) error {
		bundle, err := r.getRecoveryBundle(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !slices.Contains(bundle.CodeHashes, codeHash) {
			return ErrRecoveryCodeUnknown
		}
		if bundle.IsUsed(codeHash) {
			return ErrRecoveryCodeAlreadyUsed
		}

		query, args, err := r.db.insertRecoveryUseQuery(bundle.ID, codeHash, r.now())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
		}
		// the (bundle_id, code_hash) primary key settles concurrent redemptions
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			if r.db.errorClassificator.IsUniqueViolation(err) {
				return ErrRecoveryCodeAlreadyUsed
			}
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
}

func (r *bundleRepository) GetKeyStatus(ctx context.Context, userID int64) (models.KeyStatus, error) {
	var status models.KeyStatus

	_, err := r.GetKeyBundle(ctx, userID)
	switch {
	case err == nil:
		status.HasKeyBundle = true
	case !errors.Is(err, ErrBundleNotFound):
		return models.KeyStatus{}, err
	}

	recovery, err := r.GetRecoveryBundle(ctx, userID)
	switch {
	case err == nil:
		status.HasRecoveryBundle = true
		status.RemainingRecoveryCodes = max(len(recovery.CodeHashes)-len(recovery.UsedCodes), 0)
	case !errors.Is(err, ErrBundleNotFound):
		return models.KeyStatus{}, err
	}

	return status, nil
}

func (r *bundleRepository) deleteRecoveryBundle(ctx context.Context, tx *sql.Tx, userID int64) error {
	query, args, err := r.db.deleteRecoveryUsesQuery(userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	query, args, err = r.db.deleteRecoveryBundleQuery(userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *bundleRepository) insertRecoveryBundle(ctx context.Context, tx *sql.Tx, userID int64, bundle models.RecoveryCodeBundle) error {
	codeHashes, err := json.Marshal(bundle.CodeHashes)
	if err != nil {
		return fmt.Errorf("encode code hashes: %w", err)
	}
	wrappedKeys, err := json.Marshal(bundle.WrappedKeys)
	if err != nil {
		return fmt.Errorf("encode wrapped keys: %w", err)
	}
	if bundle.CreatedAt.IsZero() {
		bundle.CreatedAt = r.now()
	}

	query, args, err := r.db.insertRecoveryBundleQuery(userID, bundle, string(codeHashes), string(wrappedKeys))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	for _, used := range bundle.UsedCodes {
		query, args, err = r.db.insertRecoveryUseQuery(bundle.ID, used, bundle.CreatedAt)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}
	return nil
}

// inTx runs fn in a transaction and rolls back on any error.
func (r *bundleRepository) inTx(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := range txAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return err
			case <-time.After(time.Duration(attempt) * txRetryDelay):
			}
		}

		err = r.runTx(ctx, funcName, fn)
		if err == nil || r.db.errorClassificator.Classify(err) != Retryable {
			return err
		}
		logger.FromContext(ctx).Warn().Err(err).Str("func", funcName).Int("attempt", attempt+1).
			Msg("transient database error, retrying transaction")
	}
	return err
}

func (r *bundleRepository) runTx(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Err(rbErr).Str("func", funcName).Msg("error rolling back transaction")
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
