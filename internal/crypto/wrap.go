// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"fmt"

	"github.com/awnumar/memguard"
)

// WrappedKey is a data key encrypted under a key-encryption key, base64.
type WrappedKey struct {
	WrappedKey string
	IV         string
}

// GenerateDataKey creates a random 256-bit data key. The handle is
// exportable so it can be wrapped under several KEKs during setup.
func GenerateDataKey() (*ExportableKey, error) {
	raw, err := GenerateRandomBytes(KeySize)
	if err != nil {
		return nil, err
	}
	return newExportableKey(raw), nil
}

// WrapDataKey exports dek and AES-GCM encrypts it under kek with a fresh IV.
func WrapDataKey(dek *ExportableKey, kek Key) (WrappedKey, error) {
	raw, err := dek.Export()
	if err != nil {
		return WrappedKey{}, err
	}
	defer memguard.WipeBytes(raw)

	iv, err := GenerateIV()
	if err != nil {
		return WrappedKey{}, err
	}

	ciphertext, err := seal("wrap", kek, iv, raw)
	if err != nil {
		return WrappedKey{}, err
	}

	return WrappedKey{
		WrappedKey: BufferToBase64(ciphertext),
		IV:         BufferToBase64(iv),
	}, nil
}

// UnwrapDataKey decrypts a wrapped data key and re-imports it. A wrong kek
// or a corrupted wrappedKey/iv fails with KindAuthTag; the two causes
// cannot be told apart.
func UnwrapDataKey(wrappedKey, iv string, kek Key) (*ExportableKey, error) {
	ciphertext, err := Base64ToBuffer(wrappedKey)
	if err != nil {
		return nil, err
	}
	nonce, err := Base64ToBuffer(iv)
	if err != nil {
		return nil, err
	}
	if len(nonce) != IVSize {
		return nil, newError("unwrap", KindFormat, fmt.Errorf("iv is %d bytes, want %d", len(nonce), IVSize))
	}

	raw, err := open("unwrap", kek, nonce, ciphertext)
	if err != nil {
		return nil, err
	}
	return ImportDataKey(raw)
}
