package store

import (
	"context"

	"github.com/MKhiriev/go-zk-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/bundle_storage_mock.go -package=mock

// BundleStorage persists the wrapped key material of a user. Nothing it
// stores can decrypt content without the user's password or a recovery code.
type BundleStorage interface {
	GetKeyBundle(ctx context.Context, userID int64) (models.EncryptionKeyBundle, error)
	SaveKeyBundle(ctx context.Context, userID int64, bundle models.EncryptionKeyBundle) error

	GetRecoveryBundle(ctx context.Context, userID int64) (models.RecoveryCodeBundle, error)
	// SaveRecoveryBundle replaces the user's recovery bundle and its usage
	// history.
	SaveRecoveryBundle(ctx context.Context, userID int64, bundle models.RecoveryCodeBundle) error

	// CreateBundles stores both bundles of a first-time setup in one
	// transaction. It fails with ErrBundleAlreadyExists if the user already
	// has a key bundle.
	CreateBundles(ctx context.Context, userID int64, keyBundle models.EncryptionKeyBundle, recoveryBundle models.RecoveryCodeBundle) error

	// ConsumeRecoveryCode marks codeHash as used exactly once. A second call
	// for the same hash fails with ErrRecoveryCodeAlreadyUsed, even when the
	// two calls race.
	ConsumeRecoveryCode(ctx context.Context, userID int64, codeHash string) error

	GetKeyStatus(ctx context.Context, userID int64) (models.KeyStatus, error)
}

// ErrorClassificator decides how a driver error should be handled.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}
