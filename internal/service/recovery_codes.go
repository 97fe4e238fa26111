// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/models"
)

const (
	// RecoveryCodeAlphabet has 32 symbols without 0, O, I and 1. 256 is a
	// multiple of 32, so a random byte maps onto it without bias.
	RecoveryCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	DefaultRecoveryCodeCount = 12

	recoveryCodeGroups   = 3
	recoveryCodeGroupLen = 4
)

// RecoveryResult is the outcome of a successful code redemption. The code
// is not consumed until CodeHash has been persisted as used.
type RecoveryResult struct {
	DataKey  *crypto.SealedKey
	CodeHash string
}

// GenerateRecoveryCodes returns count distinct codes formatted XXXX-XXXX-XXXX.
func GenerateRecoveryCodes(count int) ([]string, error) {
	if count <= 0 {
		count = DefaultRecoveryCodeCount
	}

	codes := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for len(codes) < count {
		code, err := generateRecoveryCode()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}

func generateRecoveryCode() (string, error) {
	raw, err := crypto.GenerateRandomBytes(recoveryCodeGroups * recoveryCodeGroupLen)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(raw) + recoveryCodeGroups - 1)
	for i, b := range raw {
		if i > 0 && i%recoveryCodeGroupLen == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(RecoveryCodeAlphabet[int(b)%len(RecoveryCodeAlphabet)])
	}
	return sb.String(), nil
}

// NormalizeRecoveryCode drops dashes and whitespace and upper-cases the
// rest, so "abcd-efgh-jklm" and "ABCDEFGHJKLM" are the same code.
func NormalizeRecoveryCode(code string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, code)
}

// HashRecoveryCode returns base64(SHA-256(normalized code)).
func HashRecoveryCode(code string) string {
	sum := sha256.Sum256([]byte(NormalizeRecoveryCode(code)))
	return crypto.BufferToBase64(sum[:])
}

// MarkRecoveryCodeUsed returns a copy of bundle with codeHash recorded as
// used. bundle itself is not modified.
func MarkRecoveryCodeUsed(bundle models.RecoveryCodeBundle, codeHash string) models.RecoveryCodeBundle {
	out := bundle
	out.CodeHashes = slices.Clone(bundle.CodeHashes)
	out.WrappedKeys = slices.Clone(bundle.WrappedKeys)
	out.UsedCodes = slices.Clone(bundle.UsedCodes)
	if out.UsedCodes == nil {
		out.UsedCodes = []string{}
	}
	if !bundle.IsUsed(codeHash) {
		out.UsedCodes = append(out.UsedCodes, codeHash)
	}
	return out
}

// GetRemainingRecoveryCodeCount is the number of unused codes, never negative.
func GetRemainingRecoveryCodeCount(bundle models.RecoveryCodeBundle) int {
	return max(len(bundle.CodeHashes)-len(bundle.UsedCodes), 0)
}

type recoveryCodeSystem struct {
	keychain crypto.KeyChainService
	ids      IDGenerator
	count    int
	now      func() time.Time

	logger *logger.Logger
}

func NewRecoveryCodeSystem(keychain crypto.KeyChainService, ids IDGenerator, count int, logger *logger.Logger) RecoveryCodeSystem {
	logger.Debug().Msg("creating recovery code system")
	if count <= 0 {
		count = DefaultRecoveryCodeCount
	}
	return &recoveryCodeSystem{
		keychain: keychain,
		ids:      ids,
		count:    count,
		now:      time.Now,
		logger:   logger,
	}
}

type createdRecoveryBundle struct {
	codes  []string
	bundle models.RecoveryCodeBundle
}

func (r *recoveryCodeSystem) CreateRecoveryCodeBundle(ctx context.Context, dek *crypto.ExportableKey) ([]string, models.RecoveryCodeBundle, error) {
	created, err := runBlocking(ctx, func() (createdRecoveryBundle, error) {
		codes, err := GenerateRecoveryCodes(r.count)
		if err != nil {
			return createdRecoveryBundle{}, err
		}

		bundle := models.RecoveryCodeBundle{
			ID:          r.ids.Generate(),
			CodeHashes:  make([]string, 0, len(codes)),
			WrappedKeys: make([]models.WrappedRecoveryKey, 0, len(codes)),
			UsedCodes:   []string{},
			CreatedAt:   r.now().UTC(),
		}
		for _, code := range codes {
			entry, err := r.wrapForCode(code, dek)
			if err != nil {
				return createdRecoveryBundle{}, err
			}
			bundle.CodeHashes = append(bundle.CodeHashes, entry.CodeHash)
			bundle.WrappedKeys = append(bundle.WrappedKeys, entry)
		}

		return createdRecoveryBundle{codes: codes, bundle: bundle}, nil
	}, nil)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*recoveryCodeSystem.CreateRecoveryCodeBundle").Msg("error creating recovery code bundle")
		return nil, models.RecoveryCodeBundle{}, crypto.ClassifyError(err, crypto.CodeWrapFailed)
	}

	return created.codes, created.bundle, nil
}

func (r *recoveryCodeSystem) wrapForCode(code string, dek *crypto.ExportableKey) (models.WrappedRecoveryKey, error) {
	salt, err := r.keychain.GenerateSalt()
	if err != nil {
		return models.WrappedRecoveryKey{}, err
	}

	kek, err := r.keychain.DeriveKey(NormalizeRecoveryCode(code), salt)
	if err != nil {
		return models.WrappedRecoveryKey{}, err
	}
	defer kek.Destroy()

	wrapped, err := r.keychain.Wrap(dek, kek)
	if err != nil {
		return models.WrappedRecoveryKey{}, err
	}

	return models.WrappedRecoveryKey{
		CodeHash:   HashRecoveryCode(code),
		WrappedKey: wrapped.WrappedKey,
		Salt:       crypto.BufferToBase64(salt),
		IV:         wrapped.IV,
	}, nil
}

func (r *recoveryCodeSystem) RecoverWithCode(ctx context.Context, code string, bundle models.RecoveryCodeBundle) (*RecoveryResult, error) {
	dek, codeHash, err := r.RecoverExportableWithCode(ctx, code, bundle)
	if err != nil || dek == nil {
		return nil, err
	}

	sealed, err := dek.Seal()
	if err != nil {
		return nil, crypto.ClassifyError(err, crypto.CodeUnknown)
	}
	return &RecoveryResult{DataKey: sealed, CodeHash: codeHash}, nil
}

func (r *recoveryCodeSystem) RecoverExportableWithCode(ctx context.Context, code string, bundle models.RecoveryCodeBundle) (*crypto.ExportableKey, string, error) {
	log := logger.FromContext(ctx)

	normalized := NormalizeRecoveryCode(code)
	if normalized == "" {
		return nil, "", nil
	}

	codeHash := HashRecoveryCode(normalized)
	if bundle.IsUsed(codeHash) {
		return nil, "", recoveryCodeUsedError()
	}
	if !slices.Contains(bundle.CodeHashes, codeHash) {
		return nil, "", nil
	}
	entry, ok := bundle.Entry(codeHash)
	if !ok {
		log.Warn().Str("func", "*recoveryCodeSystem.RecoverExportableWithCode").Str("code_hash", shortHash(codeHash)).
			Msg("recovery bundle has no wrapped key for a known code hash")
		return nil, "", nil
	}

	dek, err := runBlocking(ctx, func() (*crypto.ExportableKey, error) {
		salt, err := crypto.Base64ToBuffer(entry.Salt)
		if err != nil {
			return nil, err
		}

		kek, err := r.keychain.DeriveKey(normalized, salt)
		if err != nil {
			return nil, err
		}
		defer kek.Destroy()

		return r.keychain.Unwrap(crypto.WrappedKey{WrappedKey: entry.WrappedKey, IV: entry.IV}, kek)
	}, func(k *crypto.ExportableKey) { k.Destroy() })
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", crypto.ClassifyError(err, crypto.CodeUnknown)
		}
		log.Warn().Err(err).Str("func", "*recoveryCodeSystem.RecoverExportableWithCode").Str("code_hash", shortHash(codeHash)).
			Msg("unable to unwrap data key with recovery code")
		return nil, "", nil
	}

	return dek, codeHash, nil
}

// shortHash is safe to log.
func shortHash(h string) string {
	if len(h) <= 8 {
		return h
	}
	return fmt.Sprintf("%s…", h[:8])
}
