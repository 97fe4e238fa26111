// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"slices"
	"time"
)

// WrappedRecoveryKey is one recovery code's independent wrapping of the
// data key. The KEK is derived from the normalized code and Salt.
type WrappedRecoveryKey struct {
	CodeHash   string `json:"codeHash"`
	WrappedKey string `json:"wrappedKey"`
	Salt       string `json:"salt"`
	IV         string `json:"iv"`
}

// RecoveryCodeBundle holds every recovery code's wrapped copy of the data
// key together with the hashes of the codes already consumed.
//
// Plaintext codes are never part of the bundle.
type RecoveryCodeBundle struct {
	// ID identifies one generation of codes. Regeneration produces a new ID.
	ID string `json:"id,omitempty"`

	CodeHashes  []string             `json:"codeHashes"`
	WrappedKeys []WrappedRecoveryKey `json:"wrappedKeys"`
	UsedCodes   []string             `json:"usedCodes"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// IsZero reports whether the bundle carries no codes.
func (b RecoveryCodeBundle) IsZero() bool {
	return len(b.CodeHashes) == 0 && len(b.WrappedKeys) == 0
}

// IsUsed reports whether codeHash has already been redeemed.
func (b RecoveryCodeBundle) IsUsed(codeHash string) bool {
	return slices.Contains(b.UsedCodes, codeHash)
}

// Entry returns the wrapped key for codeHash.
func (b RecoveryCodeBundle) Entry(codeHash string) (WrappedRecoveryKey, bool) {
	for _, e := range b.WrappedKeys {
		if e.CodeHash == codeHash {
			return e, true
		}
	}
	return WrappedRecoveryKey{}, false
}

// TableName returns the name of the database table
// associated with the RecoveryCodeBundle model.
func (b RecoveryCodeBundle) TableName() string {
	return "recovery_code_bundles"
}

// ConsumeRecoveryCodeRequest is the body of the atomic consume call.
type ConsumeRecoveryCodeRequest struct {
	CodeHash string `json:"codeHash"`
}

// SetupRequest carries both bundles created at first-time setup. The server
// stores them together or not at all.
type SetupRequest struct {
	KeyBundle      EncryptionKeyBundle `json:"keyBundle"`
	RecoveryBundle RecoveryCodeBundle  `json:"recoveryBundle"`
}
