// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lifecycle

import "github.com/MKhiriev/go-zk-vault/internal/crypto"

// Reduce returns the state that follows s after a. It has no side effects.
// Actions that are not valid from s.Status return s unchanged.
//
//	uninitialized ─START_CHECK→ checking ─SETUP_REQUIRED→ no_encryption
//	                                     ─KEYS_FOUND→ locked
//	locked|error ─START_UNLOCK→ unlocking ─UNLOCK_SUCCESS→ unlocked
//	                                      ─UNLOCK_FAILURE→ error
//	no_encryption ─SETUP_COMPLETE→ unlocked ─LOCK→ checking
//	any ─FAILURE→ error ─CLEAR_ERROR→ previous non-transient state
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionStartCheck:
		switch s.Status {
		case StatusUninitialized, StatusNoEncryption, StatusLocked:
			return State{Status: StatusChecking}
		}

	case ActionSetupRequired:
		if s.Status == StatusChecking {
			return State{Status: StatusNoEncryption}
		}

	case ActionKeysFound:
		if s.Status == StatusChecking {
			return State{Status: StatusLocked}
		}

	case ActionStartUnlock:
		switch s.Status {
		case StatusLocked:
			snapshot := s
			return State{Status: StatusUnlocking, previous: &snapshot}
		case StatusError:
			return State{Status: StatusUnlocking, previous: s.previous}
		}

	case ActionUnlockSuccess:
		if s.Status == StatusUnlocking {
			return unlocked(a)
		}

	case ActionUnlockFailure:
		if s.Status == StatusUnlocking {
			// a failed unlock leaves the keys locked
			return failed(State{Status: StatusLocked}, a.Err)
		}

	case ActionSetupComplete:
		if s.Status == StatusNoEncryption {
			return unlocked(a)
		}

	case ActionRecoveryCodesUpdated:
		if s.Status == StatusUnlocked {
			next := s
			next.RemainingRecoveryCodes = max(a.RemainingRecoveryCodes, 0)
			return next
		}

	case ActionLock:
		if s.Status == StatusUnlocked {
			return State{Status: StatusChecking}
		}

	case ActionFailure:
		return failed(s, a.Err)

	case ActionClearError:
		if s.Status == StatusError {
			if s.previous != nil {
				return *s.previous
			}
			return Initial()
		}
	}

	return s
}

func unlocked(a Action) State {
	return State{
		Status:                 StatusUnlocked,
		UnlockedAt:             a.At,
		RemainingRecoveryCodes: max(a.RemainingRecoveryCodes, 0),
	}
}

// failed moves to error, remembering the last non-transient state.
func failed(from State, err *crypto.EncryptionError) State {
	if err == nil {
		err = crypto.NewEncryptionError(crypto.CodeUnknown, "", nil)
	}

	var previous *State
	switch {
	case !from.Status.transient():
		snapshot := from
		previous = &snapshot
	case from.previous != nil:
		previous = from.previous
	}

	return State{Status: StatusError, Err: err, previous: previous}
}
