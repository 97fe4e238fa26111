// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/lifecycle"
	"github.com/MKhiriev/go-zk-vault/internal/resilience"
	"github.com/MKhiriev/go-zk-vault/models"
)

// KeyBundleManager creates and opens the password-wrapped data key.
type KeyBundleManager interface {
	// CreateKeyBundle returns the persistable bundle together with the live
	// data key, so that the same setup can also build recovery codes.
	CreateKeyBundle(ctx context.Context, password string) (models.EncryptionKeyBundle, *crypto.ExportableKey, error)

	// UnlockDataKey returns the operational, non-exportable data key.
	UnlockDataKey(ctx context.Context, password string, bundle models.EncryptionKeyBundle) (*crypto.SealedKey, error)
	UnlockExportableDataKey(ctx context.Context, password string, bundle models.EncryptionKeyBundle) (*crypto.ExportableKey, error)

	// RewrapKeyBundle wraps the same data key under newPassword with a fresh
	// salt and IV. Recovery bundles are not affected.
	RewrapKeyBundle(ctx context.Context, oldPassword, newPassword string, oldBundle models.EncryptionKeyBundle) (models.EncryptionKeyBundle, error)

	// WrapDataKey wraps an already unlocked data key under password.
	WrapDataKey(ctx context.Context, password string, dek *crypto.ExportableKey) (models.EncryptionKeyBundle, error)
}

// RecoveryCodeSystem wraps the data key under one-time recovery codes.
type RecoveryCodeSystem interface {
	// CreateRecoveryCodeBundle returns the plaintext codes, to be shown
	// once, and the bundle to persist.
	CreateRecoveryCodeBundle(ctx context.Context, dek *crypto.ExportableKey) ([]string, models.RecoveryCodeBundle, error)

	// RecoverWithCode returns (nil, nil) for a code that is not part of
	// bundle or whose entry cannot be unwrapped.
	RecoverWithCode(ctx context.Context, code string, bundle models.RecoveryCodeBundle) (*RecoveryResult, error)

	// RecoverExportableWithCode is RecoverWithCode for password reset: the
	// key must be wrapped again, so it stays exportable.
	RecoverExportableWithCode(ctx context.Context, code string, bundle models.RecoveryCodeBundle) (*crypto.ExportableKey, string, error)
}

// VaultService drives the encryption lifecycle of one user on the client.
type VaultService interface {
	Refresh(ctx context.Context) (lifecycle.State, error)
	Setup(ctx context.Context, password string) ([]string, error)
	Unlock(ctx context.Context, password string) error
	Recover(ctx context.Context, code string) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	// ResetPassword redeems a recovery code and wraps the same data key
	// under newPassword. The session ends up unlocked.
	ResetPassword(ctx context.Context, code, newPassword string) error
	RegenerateRecoveryCodes(ctx context.Context, password string) ([]string, error)
	RemainingRecoveryCodes(ctx context.Context) (int, error)
	Lock()
	State() lifecycle.State

	EncryptMessage(ctx context.Context, plaintext string) (string, error)
	// DecryptMessage never returns an error; the outcome is in the result.
	DecryptMessage(ctx context.Context, conversationID, blob string) resilience.DecryptionResult
}

// BundleService is the server side of bundle persistence. It validates
// everything it receives and stores only wrapped material.
type BundleService interface {
	Status(ctx context.Context, userID int64) (models.KeyStatus, error)
	Setup(ctx context.Context, userID int64, req models.SetupRequest) error

	GetKeyBundle(ctx context.Context, userID int64) (models.EncryptionKeyBundle, error)
	SaveKeyBundle(ctx context.Context, userID int64, bundle models.EncryptionKeyBundle) error

	GetRecoveryBundle(ctx context.Context, userID int64) (models.RecoveryCodeBundle, error)
	SaveRecoveryBundle(ctx context.Context, userID int64, bundle models.RecoveryCodeBundle) error

	ConsumeRecoveryCode(ctx context.Context, userID int64, codeHash string) error
}

// IDGenerator produces identifiers for new recovery bundles.
type IDGenerator interface {
	Generate() string
}
