// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"fmt"
)

func newGCM(op string, raw []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, newError(op, KindOther, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, newError(op, KindOther, err)
	}
	return gcm, nil
}

func seal(op string, key Key, iv, plaintext []byte) ([]byte, error) {
	var out []byte
	err := withKeyBytes(op, key, func(raw []byte) error {
		gcm, err := newGCM(op, raw)
		if err != nil {
			return err
		}
		out = gcm.Seal(nil, iv, plaintext, nil)
		return nil
	})
	return out, err
}

func open(op string, key Key, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < TagSize {
		return nil, newError(op, KindTruncated, nil)
	}

	var out []byte
	err := withKeyBytes(op, key, func(raw []byte) error {
		gcm, err := newGCM(op, raw)
		if err != nil {
			return err
		}
		plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
		if err != nil {
			return newError(op, KindAuthTag, err)
		}
		out = plaintext
		return nil
	})
	return out, err
}

// Encrypt encrypts plaintext under key and returns a tagged blob:
// BlobTag + base64(IV ‖ ciphertext ‖ tag). Every call uses a fresh IV.
func Encrypt(plaintext string, key Key) (string, error) {
	return EncryptBytes([]byte(plaintext), key)
}

// EncryptBytes is Encrypt for binary payloads.
func EncryptBytes(plaintext []byte, key Key) (string, error) {
	iv, err := GenerateIV()
	if err != nil {
		return "", err
	}

	ciphertext, err := seal("encrypt", key, iv, plaintext)
	if err != nil {
		return "", err
	}
	return joinBlob(iv, ciphertext), nil
}

// Decrypt reverses Encrypt. Legacy untagged blobs are accepted.
func Decrypt(blob string, key Key) (string, error) {
	plaintext, err := DecryptBytes(blob, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// DecryptBytes is Decrypt for binary payloads.
func DecryptBytes(blob string, key Key) ([]byte, error) {
	iv, ciphertext, err := SplitBlob(blob)
	if err != nil {
		return nil, err
	}
	return open("decrypt", key, iv, ciphertext)
}

// EncryptJSON marshals v to JSON and encrypts it.
func EncryptJSON[T any](v T, key Key) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrJSONMarshal, err)
	}
	return EncryptBytes(data, key)
}

// DecryptJSON decrypts blob and unmarshals it into a T. A decryption
// failure is returned as is; a parse failure wraps ErrJSONParse.
func DecryptJSON[T any](blob string, key Key) (T, error) {
	var v T

	data, err := DecryptBytes(blob, key)
	if err != nil {
		return v, err
	}
	if err = json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrJSONParse, err)
	}
	return v, nil
}
