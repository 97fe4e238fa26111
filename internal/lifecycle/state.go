// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package lifecycle models the encryption lifecycle as a pure reducer over
// metadata-only states. The data key is never part of a State; whoever
// holds the key dispatches the outcome of its I/O as an Action.
package lifecycle

import (
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
)

// Status is the lifecycle discriminator.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusChecking      Status = "checking"
	StatusNoEncryption  Status = "no_encryption"
	StatusLocked        Status = "locked"
	StatusUnlocking     Status = "unlocking"
	StatusUnlocked      Status = "unlocked"
	StatusError         Status = "error"
)

// transient statuses are never restored by CLEAR_ERROR.
func (s Status) transient() bool {
	return s == StatusChecking || s == StatusUnlocking || s == StatusError
}

// State is an immutable lifecycle snapshot.
type State struct {
	Status Status

	// UnlockedAt and RemainingRecoveryCodes are set only when unlocked.
	UnlockedAt             time.Time
	RemainingRecoveryCodes int

	// Err is set only in StatusError.
	Err *crypto.EncryptionError

	// previous is the last non-transient state, restored by CLEAR_ERROR.
	previous *State
}

// Initial returns the uninitialized state.
func Initial() State {
	return State{Status: StatusUninitialized}
}

// Previous returns the state CLEAR_ERROR would restore.
func (s State) Previous() (State, bool) {
	if s.previous == nil {
		return State{}, false
	}
	return *s.previous, true
}

// IsUnlocked reports whether the state is unlocked.
func (s State) IsUnlocked() bool {
	return s.Status == StatusUnlocked
}
