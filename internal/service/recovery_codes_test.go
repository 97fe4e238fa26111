// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"regexp"
	"slices"
	"testing"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/mock"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

var recoveryCodeFormat = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`)

type fixedIDs string

func (f fixedIDs) Generate() string { return string(f) }

func newTestRecoverySystem(count int) *recoveryCodeSystem {
	r := NewRecoveryCodeSystem(crypto.NewKeyChainService(), fixedIDs("bundle-1"), count, logger.Nop()).(*recoveryCodeSystem)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600)) }
	return r
}

func newTestDataKey(t *testing.T) *crypto.ExportableKey {
	t.Helper()
	dek, err := crypto.GenerateDataKey()
	require.NoError(t, err)
	t.Cleanup(dek.Destroy)
	return dek
}

// sameKey reports whether a and b open each other's ciphertext.
func sameKey(t *testing.T, a, b crypto.Key) bool {
	t.Helper()
	blob, err := crypto.Encrypt("sample", a)
	require.NoError(t, err)
	plain, err := crypto.Decrypt(blob, b)
	return err == nil && plain == "sample"
}

// ─────────────────────────────────────────────
// Code generation and hashing
// ─────────────────────────────────────────────

func TestGenerateRecoveryCodes(t *testing.T) {
	codes, err := GenerateRecoveryCodes(12)
	require.NoError(t, err)
	require.Len(t, codes, 12)

	seen := map[string]bool{}
	for _, c := range codes {
		assert.Regexp(t, recoveryCodeFormat, c)
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
}

func TestGenerateRecoveryCodes_DefaultCount(t *testing.T) {
	codes, err := GenerateRecoveryCodes(0)
	require.NoError(t, err)
	assert.Len(t, codes, DefaultRecoveryCodeCount)
}

func TestRecoveryCodeAlphabet(t *testing.T) {
	assert.Len(t, RecoveryCodeAlphabet, 32)
	assert.NotContains(t, RecoveryCodeAlphabet, "0")
	assert.NotContains(t, RecoveryCodeAlphabet, "O")
	assert.NotContains(t, RecoveryCodeAlphabet, "I")
	assert.NotContains(t, RecoveryCodeAlphabet, "1")
}

func TestNormalizeRecoveryCode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ABCD-EFGH-JKLM", "ABCDEFGHJKLM"},
		{"abcd-efgh-jklm", "ABCDEFGHJKLM"},
		{" abcd efgh\tjklm\n", "ABCDEFGHJKLM"},
		{"ab-cd-ef-gh-jk-lm", "ABCDEFGHJKLM"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRecoveryCode(tt.in), tt.in)
	}
}

func TestHashRecoveryCode(t *testing.T) {
	sum := sha256.Sum256([]byte("ABCDEFGHJKLM"))
	want := base64.StdEncoding.EncodeToString(sum[:])

	assert.Equal(t, want, HashRecoveryCode("ABCD-EFGH-JKLM"))
	assert.Equal(t, want, HashRecoveryCode("abcd-efgh-jklm"))
	assert.Equal(t, want, HashRecoveryCode("ABCDEFGHJKLM"))
	assert.NotEqual(t, want, HashRecoveryCode("ABCD-EFGH-JKLN"))
}

// ─────────────────────────────────────────────
// Pure bundle helpers
// ─────────────────────────────────────────────

func TestMarkRecoveryCodeUsed(t *testing.T) {
	original := models.RecoveryCodeBundle{
		CodeHashes: []string{"h1", "h2", "h3"},
		UsedCodes:  []string{"h1"},
	}

	marked := MarkRecoveryCodeUsed(original, "h2")
	assert.Equal(t, []string{"h1", "h2"}, marked.UsedCodes)
	assert.Equal(t, []string{"h1"}, original.UsedCodes, "input must not change")

	again := MarkRecoveryCodeUsed(marked, "h2")
	assert.Equal(t, []string{"h1", "h2"}, again.UsedCodes)

	fresh := MarkRecoveryCodeUsed(models.RecoveryCodeBundle{CodeHashes: []string{"h1"}}, "h1")
	assert.Equal(t, []string{"h1"}, fresh.UsedCodes)
}

func TestGetRemainingRecoveryCodeCount(t *testing.T) {
	assert.Equal(t, 3, GetRemainingRecoveryCodeCount(models.RecoveryCodeBundle{CodeHashes: []string{"a", "b", "c"}}))
	assert.Equal(t, 1, GetRemainingRecoveryCodeCount(models.RecoveryCodeBundle{CodeHashes: []string{"a", "b"}, UsedCodes: []string{"a"}}))
	assert.Equal(t, 0, GetRemainingRecoveryCodeCount(models.RecoveryCodeBundle{CodeHashes: []string{"a"}, UsedCodes: []string{"a", "x"}}))
	assert.Equal(t, 0, GetRemainingRecoveryCodeCount(models.RecoveryCodeBundle{}))
}

// ─────────────────────────────────────────────
// CreateRecoveryCodeBundle / RecoverWithCode
// ─────────────────────────────────────────────

func TestCreateRecoveryCodeBundle(t *testing.T) {
	r := newTestRecoverySystem(3)
	dek := newTestDataKey(t)

	codes, bundle, err := r.CreateRecoveryCodeBundle(context.Background(), dek)
	require.NoError(t, err)
	require.Len(t, codes, 3)

	assert.Equal(t, "bundle-1", bundle.ID)
	assert.Equal(t, time.UTC, bundle.CreatedAt.Location())
	assert.Empty(t, bundle.UsedCodes)
	assert.NotNil(t, bundle.UsedCodes)
	require.Len(t, bundle.CodeHashes, 3)
	require.Len(t, bundle.WrappedKeys, 3)

	salts := map[string]bool{}
	for i, code := range codes {
		assert.Equal(t, HashRecoveryCode(code), bundle.CodeHashes[i])
		assert.Equal(t, bundle.CodeHashes[i], bundle.WrappedKeys[i].CodeHash)
		assert.NotContains(t, bundle.WrappedKeys[i].WrappedKey, code)
		salts[bundle.WrappedKeys[i].Salt] = true
	}
	assert.Len(t, salts, 3, "every code gets its own salt")
	assert.False(t, dek.Destroyed(), "the caller keeps the data key")
}

func TestRecoverWithCode(t *testing.T) {
	r := newTestRecoverySystem(2)
	dek := newTestDataKey(t)
	ctx := context.Background()

	codes, bundle, err := r.CreateRecoveryCodeBundle(ctx, dek)
	require.NoError(t, err)

	t.Run("valid code in any format", func(t *testing.T) {
		result, err := r.RecoverWithCode(ctx, "  "+toLowerNoDash(codes[1])+" ", bundle)
		require.NoError(t, err)
		require.NotNil(t, result)
		defer result.DataKey.Destroy()

		assert.Equal(t, HashRecoveryCode(codes[1]), result.CodeHash)
		assert.True(t, sameKey(t, dek, result.DataKey))
	})

	t.Run("used code is fatal", func(t *testing.T) {
		used := MarkRecoveryCodeUsed(bundle, HashRecoveryCode(codes[0]))

		result, err := r.RecoverWithCode(ctx, codes[0], used)
		assert.Nil(t, result)
		require.ErrorIs(t, err, ErrRecoveryCodeAlreadyUsed)

		code, ok := crypto.CodeOf(err)
		require.True(t, ok)
		assert.Equal(t, crypto.CodeWrongPassword, code)
		assert.False(t, err.(*crypto.EncryptionError).IsRetryable())
	})

	t.Run("unknown code is nil", func(t *testing.T) {
		result, err := r.RecoverWithCode(ctx, "AAAA-AAAA-AAAA", bundle)
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("empty code is nil", func(t *testing.T) {
		result, err := r.RecoverWithCode(ctx, " - ", bundle)
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("corrupted entry is nil", func(t *testing.T) {
		corrupted := bundle
		corrupted.WrappedKeys = slices.Clone(bundle.WrappedKeys)
		corrupted.WrappedKeys[0].WrappedKey = corrupted.WrappedKeys[1].WrappedKey

		result, err := r.RecoverWithCode(ctx, codes[0], corrupted)
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("hash without entry is nil", func(t *testing.T) {
		partial := bundle
		partial.WrappedKeys = bundle.WrappedKeys[1:]

		result, err := r.RecoverWithCode(ctx, codes[0], partial)
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("cancelled context is unknown", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		result, err := r.RecoverWithCode(cctx, codes[0], bundle)
		assert.Nil(t, result)
		code, ok := crypto.CodeOf(err)
		require.True(t, ok)
		assert.Equal(t, crypto.CodeUnknown, code)
	})
}

func TestRecoverWithCode_EveryCodeOpensTheDataKey(t *testing.T) {
	ctx := context.Background()
	keyBundle, dek, err := newTestKeyBundleManager().CreateKeyBundle(ctx, "correct horse")
	require.NoError(t, err)
	defer dek.Destroy()

	blob, err := crypto.Encrypt("written before any recovery", dek)
	require.NoError(t, err)

	r := newTestRecoverySystem(DefaultRecoveryCodeCount)
	codes, bundle, err := r.CreateRecoveryCodeBundle(ctx, dek)
	require.NoError(t, err)
	require.Len(t, codes, 12)

	for i, code := range codes {
		result, err := r.RecoverWithCode(ctx, code, bundle)
		require.NoError(t, err, "code %d", i)
		require.NotNil(t, result, "code %d", i)

		plain, err := crypto.Decrypt(blob, result.DataKey)
		result.DataKey.Destroy()
		require.NoError(t, err, "code %d", i)
		assert.Equal(t, "written before any recovery", plain)

		bundle = MarkRecoveryCodeUsed(bundle, result.CodeHash)
		assert.Equal(t, len(codes)-i-1, GetRemainingRecoveryCodeCount(bundle))
	}

	// spending every code leaves the password path intact
	key, err := newTestKeyBundleManager().UnlockDataKey(ctx, "correct horse", keyBundle)
	require.NoError(t, err)
	defer key.Destroy()
	assert.True(t, sameKey(t, dek, key))
}

func TestRecoverExportableWithCode(t *testing.T) {
	r := newTestRecoverySystem(2)
	dek := newTestDataKey(t)
	ctx := context.Background()

	codes, bundle, err := r.CreateRecoveryCodeBundle(ctx, dek)
	require.NoError(t, err)

	key, hash, err := r.RecoverExportableWithCode(ctx, codes[0], bundle)
	require.NoError(t, err)
	require.NotNil(t, key)
	defer key.Destroy()
	assert.Equal(t, HashRecoveryCode(codes[0]), hash)

	raw, err := key.Export()
	require.NoError(t, err)
	want, err := dek.Export()
	require.NoError(t, err)
	assert.Equal(t, want, raw)

	key, hash, err = r.RecoverExportableWithCode(ctx, "AAAA-AAAA-AAAA", bundle)
	assert.NoError(t, err)
	assert.Nil(t, key)
	assert.Empty(t, hash)
}

func TestCreateRecoveryCodeBundle_KeychainFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	keychain := mock.NewMockKeyChainService(ctrl)
	keychain.EXPECT().GenerateSalt().Return(nil, errors.New("entropy exhausted"))

	r := NewRecoveryCodeSystem(keychain, fixedIDs("x"), 2, logger.Nop())

	codes, bundle, err := r.CreateRecoveryCodeBundle(context.Background(), newTestDataKey(t))
	assert.Nil(t, codes)
	assert.True(t, bundle.IsZero())
	code, ok := crypto.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, crypto.CodeUnknown, code)
}

func toLowerNoDash(code string) string {
	out := make([]byte, 0, len(code))
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c == '-' {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
