// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/mock"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestKeyBundleManager() KeyBundleManager {
	return NewKeyBundleManager(crypto.NewKeyChainService(), logger.Nop())
}

func requireCode(t *testing.T, err error, want crypto.Code) {
	t.Helper()
	require.Error(t, err)
	code, ok := crypto.CodeOf(err)
	require.True(t, ok, "expected an EncryptionError, got %v", err)
	assert.Equal(t, want, code)
}

// ─────────────────────────────────────────────
// CreateKeyBundle / UnlockDataKey
// ─────────────────────────────────────────────

func TestKeyBundleManager_CreateAndUnlock(t *testing.T) {
	m := newTestKeyBundleManager()
	ctx := context.Background()

	bundle, dek, err := m.CreateKeyBundle(ctx, "correct horse")
	require.NoError(t, err)
	defer dek.Destroy()

	salt, err := crypto.Base64ToBuffer(bundle.Salt)
	require.NoError(t, err)
	assert.Len(t, salt, crypto.SaltSize)
	iv, err := crypto.Base64ToBuffer(bundle.WrappedKeyIV)
	require.NoError(t, err)
	assert.Len(t, iv, crypto.IVSize)
	wrapped, err := crypto.Base64ToBuffer(bundle.WrappedDataKey)
	require.NoError(t, err)
	assert.Len(t, wrapped, crypto.KeySize+crypto.TagSize)

	key, err := m.UnlockDataKey(ctx, "correct horse", bundle)
	require.NoError(t, err)
	defer key.Destroy()
	assert.True(t, sameKey(t, dek, key))
}

func TestKeyBundleManager_UnlockErrors(t *testing.T) {
	m := newTestKeyBundleManager()
	ctx := context.Background()

	bundle, dek, err := m.CreateKeyBundle(ctx, "pw")
	require.NoError(t, err)
	dek.Destroy()

	t.Run("wrong password", func(t *testing.T) {
		_, err := m.UnlockDataKey(ctx, "not pw", bundle)
		requireCode(t, err, crypto.CodeWrongPassword)
		assert.True(t, err.(*crypto.EncryptionError).RequiresUserAction())
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := m.UnlockDataKey(ctx, "", bundle)
		requireCode(t, err, crypto.CodeInvalidFormat)
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})

	t.Run("no bundle", func(t *testing.T) {
		_, err := m.UnlockDataKey(ctx, "pw", models.EncryptionKeyBundle{})
		requireCode(t, err, crypto.CodeNotSetup)
	})

	t.Run("salt not base64", func(t *testing.T) {
		bad := bundle
		bad.Salt = "%%%"
		_, err := m.UnlockDataKey(ctx, "pw", bad)
		requireCode(t, err, crypto.CodeInvalidFormat)
	})

	t.Run("tampered wrapped key", func(t *testing.T) {
		bad := bundle
		raw, _ := crypto.Base64ToBuffer(bundle.WrappedDataKey)
		raw[0] ^= 0xff
		bad.WrappedDataKey = crypto.BufferToBase64(raw)
		_, err := m.UnlockDataKey(ctx, "pw", bad)
		requireCode(t, err, crypto.CodeWrongPassword)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := m.UnlockDataKey(cctx, "pw", bundle)
		requireCode(t, err, crypto.CodeUnknown)
		assert.True(t, err.(*crypto.EncryptionError).IsRetryable())
	})
}

func TestKeyBundleManager_CreateEmptyPassword(t *testing.T) {
	_, dek, err := newTestKeyBundleManager().CreateKeyBundle(context.Background(), "")
	assert.Nil(t, dek)
	requireCode(t, err, crypto.CodeInvalidFormat)
}

// ─────────────────────────────────────────────
// RewrapKeyBundle
// ─────────────────────────────────────────────

func TestKeyBundleManager_Rewrap(t *testing.T) {
	m := newTestKeyBundleManager()
	ctx := context.Background()

	oldBundle, dek, err := m.CreateKeyBundle(ctx, "old")
	require.NoError(t, err)
	defer dek.Destroy()

	newBundle, err := m.RewrapKeyBundle(ctx, "old", "new", oldBundle)
	require.NoError(t, err)

	assert.NotEqual(t, oldBundle.Salt, newBundle.Salt)
	assert.NotEqual(t, oldBundle.WrappedKeyIV, newBundle.WrappedKeyIV)

	key, err := m.UnlockDataKey(ctx, "new", newBundle)
	require.NoError(t, err)
	defer key.Destroy()
	assert.True(t, sameKey(t, dek, key), "the data key never changes")

	_, err = m.UnlockDataKey(ctx, "old", newBundle)
	requireCode(t, err, crypto.CodeWrongPassword)

	_, err = m.RewrapKeyBundle(ctx, "wrong", "new", oldBundle)
	requireCode(t, err, crypto.CodeWrongPassword)

	_, err = m.RewrapKeyBundle(ctx, "old", "", oldBundle)
	requireCode(t, err, crypto.CodeInvalidFormat)
}

func TestKeyBundleManager_WrapDataKey(t *testing.T) {
	m := newTestKeyBundleManager()
	ctx := context.Background()
	dek := newTestDataKey(t)

	bundle, err := m.WrapDataKey(ctx, "pw", dek)
	require.NoError(t, err)

	key, err := m.UnlockDataKey(ctx, "pw", bundle)
	require.NoError(t, err)
	defer key.Destroy()
	assert.True(t, sameKey(t, dek, key))

	_, err = m.WrapDataKey(ctx, "", dek)
	requireCode(t, err, crypto.CodeInvalidFormat)
}

// ─────────────────────────────────────────────
// Keychain failures
// ─────────────────────────────────────────────

func TestKeyBundleManager_WrapFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	keychain := mock.NewMockKeyChainService(ctrl)

	realKeychain := crypto.NewKeyChainService()
	salt, err := realKeychain.GenerateSalt()
	require.NoError(t, err)
	kek, err := realKeychain.DeriveKey("pw", salt)
	require.NoError(t, err)
	dek, err := realKeychain.GenerateDataKey()
	require.NoError(t, err)

	keychain.EXPECT().GenerateSalt().Return(salt, nil)
	keychain.EXPECT().DeriveKey("pw", salt).Return(kek, nil)
	keychain.EXPECT().GenerateDataKey().Return(dek, nil)
	keychain.EXPECT().Wrap(dek, kek).Return(crypto.WrappedKey{}, errors.New("boom"))

	m := NewKeyBundleManager(keychain, logger.Nop())
	_, got, err := m.CreateKeyBundle(context.Background(), "pw")

	assert.Nil(t, got)
	requireCode(t, err, crypto.CodeUnknown)
	assert.True(t, dek.Destroyed(), "a data key that was never wrapped is dropped")
	assert.True(t, kek.Destroyed())
}
