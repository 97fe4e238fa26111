// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"io"
)

// GenerateRandomBytes reads n bytes from the OS CSPRNG.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, newError("random", KindRandom, err)
	}
	return b, nil
}

// GenerateSalt returns a fresh 16-byte salt. Salts are not secret.
func GenerateSalt() ([]byte, error) {
	return GenerateRandomBytes(SaltSize)
}

// GenerateIV returns a fresh 12-byte AES-GCM nonce. A nonce must never be
// reused with the same key, so every encryption calls this.
func GenerateIV() ([]byte, error) {
	return GenerateRandomBytes(IVSize)
}
