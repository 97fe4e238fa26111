// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package resilience

import "github.com/MKhiriev/go-zk-vault/internal/crypto"

// DecryptionStatus is the outcome of one decryption attempt.
type DecryptionStatus string

const (
	StatusSuccess     DecryptionStatus = "success"
	StatusPlaintext   DecryptionStatus = "plaintext"
	StatusLocked      DecryptionStatus = "locked"
	StatusKeyMismatch DecryptionStatus = "key_mismatch"
	StatusCorrupted   DecryptionStatus = "corrupted"
	StatusError       DecryptionStatus = "error"
	StatusCircuitOpen DecryptionStatus = "circuit_open"
)

// DecryptionResult carries either a usable Value or a classified Err.
type DecryptionResult struct {
	Status DecryptionStatus
	// Value is the plaintext for success, or the input unchanged for
	// plaintext passthrough.
	Value string
	Err   *crypto.EncryptionError
}

// OK reports whether Value can be shown to the user.
func (r DecryptionResult) OK() bool {
	return r.Status == StatusSuccess || r.Status == StatusPlaintext
}

// DecryptFunc decrypts one blob.
type DecryptFunc func(blob string) (string, error)

// ValidateDecryption runs decrypt on blob and classifies the outcome.
// Input that does not look like a ciphertext blob is passed through as
// plaintext without calling decrypt, so legacy unencrypted data coexists
// with encrypted data.
func ValidateDecryption(blob string, decrypt DecryptFunc) DecryptionResult {
	if !crypto.IsEncrypted(blob) {
		return DecryptionResult{Status: StatusPlaintext, Value: blob}
	}

	value, err := decrypt(blob)
	if err == nil {
		return DecryptionResult{Status: StatusSuccess, Value: value}
	}

	encErr := crypto.ClassifyError(err, crypto.CodeKeyMismatch)
	return DecryptionResult{Status: statusForCode(encErr.Code), Err: encErr}
}

func statusForCode(code crypto.Code) DecryptionStatus {
	switch code {
	case crypto.CodeLocked, crypto.CodeNotSetup, crypto.CodeSessionExpired:
		return StatusLocked
	case crypto.CodeKeyMismatch, crypto.CodeWrongPassword:
		return StatusKeyMismatch
	case crypto.CodeCorruptedData, crypto.CodeInvalidFormat:
		return StatusCorrupted
	}
	return StatusError
}

// countsAsFailure reports whether err should move the breaker towards open.
// Locked and not-set-up are expected states, not systemic failures.
func countsAsFailure(err *crypto.EncryptionError) bool {
	return err.Code != crypto.CodeLocked && err.Code != crypto.CodeNotSetup
}
