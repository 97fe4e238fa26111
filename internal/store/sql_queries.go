package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-zk-vault/models"
)

const (
	keyBundlesTable      = "key_bundles"
	recoveryBundlesTable = "recovery_code_bundles"
	recoveryUsesTable    = "recovery_code_uses"
)

// upsertKeyBundleSuffix is understood by both PostgreSQL and SQLite >= 3.24.
const upsertKeyBundleSuffix = `ON CONFLICT (user_id) DO UPDATE SET
	salt = excluded.salt,
	wrapped_data_key = excluded.wrapped_data_key,
	wrapped_key_iv = excluded.wrapped_key_iv,
	updated_at = excluded.updated_at`

func (db *DB) selectKeyBundleQuery(userID int64) (string, []any, error) {
	return db.builder.
		Select("salt", "wrapped_data_key", "wrapped_key_iv").
		From(keyBundlesTable).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func (db *DB) insertKeyBundleQuery(userID int64, b models.EncryptionKeyBundle, now time.Time) sq.InsertBuilder {
	return db.builder.
		Insert(keyBundlesTable).
		Columns("user_id", "salt", "wrapped_data_key", "wrapped_key_iv", "updated_at").
		Values(userID, b.Salt, b.WrappedDataKey, b.WrappedKeyIV, now)
}

func (db *DB) upsertKeyBundleQuery(userID int64, b models.EncryptionKeyBundle, now time.Time) (string, []any, error) {
	return db.insertKeyBundleQuery(userID, b, now).Suffix(upsertKeyBundleSuffix).ToSql()
}

func (db *DB) selectRecoveryBundleQuery(userID int64) (string, []any, error) {
	return db.builder.
		Select("id", "code_hashes", "wrapped_keys", "created_at").
		From(recoveryBundlesTable).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func (db *DB) selectRecoveryUsesQuery(bundleID string) (string, []any, error) {
	return db.builder.
		Select("code_hash").
		From(recoveryUsesTable).
		Where(sq.Eq{"bundle_id": bundleID}).
		OrderBy("used_at", "code_hash").
		ToSql()
}

func (db *DB) insertRecoveryBundleQuery(userID int64, b models.RecoveryCodeBundle, codeHashes, wrappedKeys string) (string, []any, error) {
	return db.builder.
		Insert(recoveryBundlesTable).
		Columns("id", "user_id", "code_hashes", "wrapped_keys", "created_at").
		Values(b.ID, userID, codeHashes, wrappedKeys, b.CreatedAt).
		ToSql()
}

// deleteRecoveryUsesQuery removes the usage rows of every bundle owned by
// userID. SQLite only cascades when foreign keys are enabled, so the rows
// are deleted explicitly.
func (db *DB) deleteRecoveryUsesQuery(userID int64) (string, []any, error) {
	return db.builder.
		Delete(recoveryUsesTable).
		Where(sq.Expr("bundle_id IN (SELECT id FROM "+recoveryBundlesTable+" WHERE user_id = ?)", userID)).
		ToSql()
}

func (db *DB) deleteRecoveryBundleQuery(userID int64) (string, []any, error) {
	return db.builder.
		Delete(recoveryBundlesTable).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func (db *DB) insertRecoveryUseQuery(bundleID, codeHash string, usedAt time.Time) (string, []any, error) {
	return db.builder.
		Insert(recoveryUsesTable).
		Columns("bundle_id", "code_hash", "used_at").
		Values(bundleID, codeHash, usedAt).
		ToSql()
}
