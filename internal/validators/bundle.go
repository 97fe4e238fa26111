// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldSalt targets the PBKDF2 salt of a key bundle.
	FieldSalt = "salt"

	// FieldWrappedDataKey targets the wrapped data key of a key bundle.
	FieldWrappedDataKey = "wrapped_data_key"

	// FieldWrappedKeyIV targets the wrapping nonce of a key bundle.
	FieldWrappedKeyIV = "wrapped_key_iv"

	// FieldCodeHashes targets the code hash list of a recovery bundle.
	FieldCodeHashes = "code_hashes"

	// FieldWrappedKeys targets the per-code wrapped keys of a recovery bundle.
	FieldWrappedKeys = "wrapped_keys"

	// FieldUsedCodes targets the consumed code hashes of a recovery bundle.
	FieldUsedCodes = "used_codes"

	// FieldCodeHash targets a single code hash.
	FieldCodeHash = "code_hash"
)

// wrappedKeySize is an AES-256 key sealed with AES-GCM: key plus tag.
const wrappedKeySize = crypto.KeySize + crypto.TagSize

// BundleValidator checks the wire format of key material sent to the
// server. It can only verify shapes; the server never holds a key that
// could open a bundle.
type BundleValidator struct {
}

func NewBundleValidator() Validator {
	return &BundleValidator{}
}

// Validate supports models.EncryptionKeyBundle, models.RecoveryCodeBundle,
// models.SetupRequest and models.ConsumeRecoveryCodeRequest, as values or
// pointers.
func (v *BundleValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.EncryptionKeyBundle:
		return v.validateKeyBundle(ctx, value, fields...)
	case *models.EncryptionKeyBundle:
		return v.validateKeyBundle(ctx, *value, fields...)

	case models.RecoveryCodeBundle:
		return v.validateRecoveryBundle(ctx, value, fields...)
	case *models.RecoveryCodeBundle:
		return v.validateRecoveryBundle(ctx, *value, fields...)

	case models.SetupRequest:
		return v.validateSetupRequest(ctx, value)
	case *models.SetupRequest:
		return v.validateSetupRequest(ctx, *value)

	case models.ConsumeRecoveryCodeRequest:
		return validateCodeHash(value.CodeHash)
	case *models.ConsumeRecoveryCodeRequest:
		return validateCodeHash(value.CodeHash)

	default:
		return ErrUnsupportedType
	}
}

func (v *BundleValidator) validateKeyBundle(ctx context.Context, bundle models.EncryptionKeyBundle, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSalt, FieldWrappedDataKey, FieldWrappedKeyIV}
	}

	for _, f := range fields {
		switch f {
		case FieldSalt:
			if !hasDecodedLen(bundle.Salt, crypto.SaltSize) {
				return ErrInvalidSalt
			}
		case FieldWrappedDataKey:
			if !hasDecodedLen(bundle.WrappedDataKey, wrappedKeySize) {
				return ErrInvalidWrappedKey
			}
		case FieldWrappedKeyIV:
			if !hasDecodedLen(bundle.WrappedKeyIV, crypto.IVSize) {
				return ErrInvalidIV
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateRecoveryBundle checks that every code hash is unique, that each
// hash has exactly one wrapped key and that used codes belong to the bundle.
func (v *BundleValidator) validateRecoveryBundle(ctx context.Context, bundle models.RecoveryCodeBundle, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCodeHashes, FieldWrappedKeys, FieldUsedCodes}
	}

	known := make(map[string]struct{}, len(bundle.CodeHashes))
	for _, h := range bundle.CodeHashes {
		known[h] = struct{}{}
	}

	for _, f := range fields {
		switch f {
		case FieldCodeHashes:
			if len(bundle.CodeHashes) == 0 {
				return ErrEmptyCodeHashes
			}
			if len(known) != len(bundle.CodeHashes) {
				return ErrDuplicateCodeHash
			}
			for _, h := range bundle.CodeHashes {
				if err := validateCodeHash(h); err != nil {
					return err
				}
			}
		case FieldWrappedKeys:
			if len(bundle.WrappedKeys) != len(bundle.CodeHashes) {
				return ErrWrappedKeysMismatch
			}
			seen := make(map[string]struct{}, len(bundle.WrappedKeys))
			for i, e := range bundle.WrappedKeys {
				if _, ok := known[e.CodeHash]; !ok {
					return ErrWrappedKeysMismatch
				}
				if _, dup := seen[e.CodeHash]; dup {
					return ErrWrappedKeysMismatch
				}
				seen[e.CodeHash] = struct{}{}

				if err := validateRecoveryEntry(e); err != nil {
					return fmt.Errorf("wrapped key %d: %w", i, err)
				}
			}
		case FieldUsedCodes:
			for _, h := range bundle.UsedCodes {
				if _, ok := known[h]; !ok {
					return ErrUsedCodeNotInBundle
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *BundleValidator) validateSetupRequest(ctx context.Context, req models.SetupRequest) error {
	if err := v.validateKeyBundle(ctx, req.KeyBundle); err != nil {
		return fmt.Errorf("key bundle: %w", err)
	}
	if req.RecoveryBundle.IsZero() {
		return ErrMissingRecoveryBundle
	}
	if err := v.validateRecoveryBundle(ctx, req.RecoveryBundle); err != nil {
		return fmt.Errorf("recovery bundle: %w", err)
	}
	return nil
}

func validateRecoveryEntry(e models.WrappedRecoveryKey) error {
	switch {
	case !hasDecodedLen(e.Salt, crypto.SaltSize):
		return ErrInvalidSalt
	case !hasDecodedLen(e.IV, crypto.IVSize):
		return ErrInvalidIV
	case !hasDecodedLen(e.WrappedKey, wrappedKeySize):
		return ErrInvalidWrappedKey
	}
	return nil
}

// validateCodeHash accepts base64 of a SHA-256 digest.
func validateCodeHash(h string) error {
	if !hasDecodedLen(h, 32) {
		return ErrInvalidCodeHash
	}
	return nil
}

func hasDecodedLen(s string, n int) bool {
	if s == "" {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	return err == nil && len(raw) == n
}
