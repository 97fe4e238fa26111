// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"
	"strings"
)

const (
	// SaltSize is the PBKDF2 salt length in bytes.
	SaltSize = 16
	// IVSize is the AES-GCM nonce length in bytes.
	IVSize = 12
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// TagSize is the AES-GCM authentication tag length in bytes.
	TagSize = 16

	// BlobTag marks ciphertext blobs produced by Encrypt. ':' never occurs
	// in standard base64, so a tagged blob is never mistaken for legacy data.
	BlobTag = "zk1:"
)

// BufferToBase64 encodes b with standard padded base64.
func BufferToBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64ToBuffer decodes standard padded base64.
func Base64ToBuffer(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, newError("decode", KindFormat, err)
	}
	return b, nil
}

// HasBlobTag reports whether s carries the versioned ciphertext tag.
func HasBlobTag(s string) bool {
	return strings.HasPrefix(s, BlobTag)
}

// IsEncrypted reports whether s should be treated as a ciphertext blob.
//
// Tagged blobs are recognized exactly. Untagged input falls back to the
// legacy rule: valid base64 that decodes to more than IVSize bytes. That
// rule misclassifies plaintext which happens to be long valid base64; such
// input will fail decryption rather than pass through.
func IsEncrypted(s string) bool {
	payload := strings.TrimPrefix(s, BlobTag)
	if payload == "" {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return false
	}
	return len(raw) > IVSize
}

// SplitBlob decodes a tagged or legacy blob into its IV and ciphertext.
func SplitBlob(blob string) (iv, ciphertext []byte, err error) {
	raw, err := Base64ToBuffer(strings.TrimPrefix(blob, BlobTag))
	if err != nil {
		return nil, nil, err
	}
	if len(raw) < IVSize+TagSize {
		return nil, nil, newError("split", KindTruncated, nil)
	}
	return raw[:IVSize], raw[IVSize:], nil
}

func joinBlob(iv, ciphertext []byte) string {
	raw := make([]byte, 0, len(iv)+len(ciphertext))
	raw = append(raw, iv...)
	raw = append(raw, ciphertext...)
	return BlobTag + BufferToBase64(raw)
}
