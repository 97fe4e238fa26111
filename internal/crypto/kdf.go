// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2Iterations is the work factor for every key derivation.
const PBKDF2Iterations = 100_000

var (
	errEmptyPassword = errors.New("empty password")
	errShortSalt     = fmt.Errorf("salt shorter than %d bytes", SaltSize)
)

// DeriveKeyFromPassword derives a 256-bit key-encryption key with
// PBKDF2-HMAC-SHA256. The same (password, salt) pair always yields the same
// key. The result is sealed: it can wrap and unwrap but never be exported.
//
// The call is CPU bound (tens of milliseconds); callers on a latency
// sensitive path should run it off their own goroutine.
func DeriveKeyFromPassword(password string, salt []byte) (*SealedKey, error) {
	if password == "" {
		return nil, newError("derive", KindFormat, errEmptyPassword)
	}
	if len(salt) < SaltSize {
		return nil, newError("derive", KindFormat, errShortSalt)
	}

	pw := []byte(password)
	defer memguard.WipeBytes(pw)

	key := pbkdf2.Key(pw, salt, PBKDF2Iterations, KeySize, sha256.New)
	return newSealedKey(key), nil
}
