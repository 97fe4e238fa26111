// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/models"
)

type keyBundleManager struct {
	keychain crypto.KeyChainService

	logger *logger.Logger
}

func NewKeyBundleManager(keychain crypto.KeyChainService, logger *logger.Logger) KeyBundleManager {
	logger.Debug().Msg("creating key bundle manager")
	return &keyBundleManager{
		keychain: keychain,
		logger:   logger,
	}
}

type createdBundle struct {
	bundle models.EncryptionKeyBundle
	dek    *crypto.ExportableKey
}

func (m *keyBundleManager) CreateKeyBundle(ctx context.Context, password string) (models.EncryptionKeyBundle, *crypto.ExportableKey, error) {
	if password == "" {
		return models.EncryptionKeyBundle{}, nil, emptyPasswordError()
	}

	created, err := runBlocking(ctx, func() (createdBundle, error) {
		salt, err := m.keychain.GenerateSalt()
		if err != nil {
			return createdBundle{}, err
		}

		kek, err := m.keychain.DeriveKey(password, salt)
		if err != nil {
			return createdBundle{}, err
		}
		defer kek.Destroy()

		dek, err := m.keychain.GenerateDataKey()
		if err != nil {
			return createdBundle{}, err
		}

		wrapped, err := m.keychain.Wrap(dek, kek)
		if err != nil {
			dek.Destroy()
			return createdBundle{}, err
		}

		return createdBundle{
			bundle: models.EncryptionKeyBundle{
				Salt:           crypto.BufferToBase64(salt),
				WrappedDataKey: wrapped.WrappedKey,
				WrappedKeyIV:   wrapped.IV,
			},
			dek: dek,
		}, nil
	}, func(c createdBundle) { c.dek.Destroy() })
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*keyBundleManager.CreateKeyBundle").Msg("error creating key bundle")
		return models.EncryptionKeyBundle{}, nil, crypto.ClassifyError(err, crypto.CodeWrapFailed)
	}

	return created.bundle, created.dek, nil
}

func (m *keyBundleManager) UnlockDataKey(ctx context.Context, password string, bundle models.EncryptionKeyBundle) (*crypto.SealedKey, error) {
	dek, err := m.UnlockExportableDataKey(ctx, password, bundle)
	if err != nil {
		return nil, err
	}

	sealed, err := dek.Seal()
	if err != nil {
		return nil, crypto.ClassifyError(err, crypto.CodeUnknown)
	}
	return sealed, nil
}

func (m *keyBundleManager) UnlockExportableDataKey(ctx context.Context, password string, bundle models.EncryptionKeyBundle) (*crypto.ExportableKey, error) {
	if password == "" {
		return nil, emptyPasswordError()
	}
	if bundle.IsZero() {
		return nil, notSetupError(nil)
	}

	dek, err := runBlocking(ctx, func() (*crypto.ExportableKey, error) {
		return m.unwrap(password, bundle)
	}, func(k *crypto.ExportableKey) { k.Destroy() })
	if err != nil {
		encErr := crypto.ClassifyError(err, crypto.CodeWrongPassword)
		logger.FromContext(ctx).Warn().Str("func", "*keyBundleManager.UnlockExportableDataKey").
			Str("code", string(encErr.Code)).Msg("unable to unlock data key")
		return nil, encErr
	}
	return dek, nil
}

func (m *keyBundleManager) RewrapKeyBundle(ctx context.Context, oldPassword, newPassword string, oldBundle models.EncryptionKeyBundle) (models.EncryptionKeyBundle, error) {
	if newPassword == "" {
		return models.EncryptionKeyBundle{}, emptyPasswordError()
	}

	dek, err := m.UnlockExportableDataKey(ctx, oldPassword, oldBundle)
	if err != nil {
		return models.EncryptionKeyBundle{}, err
	}
	defer dek.Destroy()

	return m.WrapDataKey(ctx, newPassword, dek)
}

func (m *keyBundleManager) WrapDataKey(ctx context.Context, password string, dek *crypto.ExportableKey) (models.EncryptionKeyBundle, error) {
	if password == "" {
		return models.EncryptionKeyBundle{}, emptyPasswordError()
	}

	bundle, err := runBlocking(ctx, func() (models.EncryptionKeyBundle, error) {
		salt, err := m.keychain.GenerateSalt()
		if err != nil {
			return models.EncryptionKeyBundle{}, err
		}

		kek, err := m.keychain.DeriveKey(password, salt)
		if err != nil {
			return models.EncryptionKeyBundle{}, err
		}
		defer kek.Destroy()

		wrapped, err := m.keychain.Wrap(dek, kek)
		if err != nil {
			return models.EncryptionKeyBundle{}, err
		}

		return models.EncryptionKeyBundle{
			Salt:           crypto.BufferToBase64(salt),
			WrappedDataKey: wrapped.WrappedKey,
			WrappedKeyIV:   wrapped.IV,
		}, nil
	}, nil)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*keyBundleManager.WrapDataKey").Msg("error wrapping data key")
		return models.EncryptionKeyBundle{}, crypto.ClassifyError(err, crypto.CodeWrapFailed)
	}

	return bundle, nil
}

func (m *keyBundleManager) unwrap(password string, bundle models.EncryptionKeyBundle) (*crypto.ExportableKey, error) {
	salt, err := crypto.Base64ToBuffer(bundle.Salt)
	if err != nil {
		return nil, err
	}

	kek, err := m.keychain.DeriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer kek.Destroy()

	return m.keychain.Unwrap(crypto.WrappedKey{WrappedKey: bundle.WrappedDataKey, IV: bundle.WrappedKeyIV}, kek)
}
