// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lifecycle

import (
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
)

// ActionType names a lifecycle event.
type ActionType string

const (
	ActionStartCheck           ActionType = "START_CHECK"
	ActionSetupRequired        ActionType = "SETUP_REQUIRED"
	ActionKeysFound            ActionType = "KEYS_FOUND"
	ActionStartUnlock          ActionType = "START_UNLOCK"
	ActionUnlockSuccess        ActionType = "UNLOCK_SUCCESS"
	ActionUnlockFailure        ActionType = "UNLOCK_FAILURE"
	ActionSetupComplete        ActionType = "SETUP_COMPLETE"
	ActionRecoveryCodesUpdated ActionType = "RECOVERY_CODES_UPDATED"
	ActionLock                 ActionType = "LOCK"
	ActionFailure              ActionType = "FAILURE"
	ActionClearError           ActionType = "CLEAR_ERROR"
)

// Action is an event dispatched into the reducer. Only the fields relevant
// to Type are read.
type Action struct {
	Type ActionType

	RemainingRecoveryCodes int
	At                     time.Time
	Err                    *crypto.EncryptionError
}

func StartCheck() Action    { return Action{Type: ActionStartCheck} }
func SetupRequired() Action { return Action{Type: ActionSetupRequired} }
func KeysFound() Action     { return Action{Type: ActionKeysFound} }
func StartUnlock() Action   { return Action{Type: ActionStartUnlock} }
func Lock() Action          { return Action{Type: ActionLock} }
func ClearError() Action    { return Action{Type: ActionClearError} }

// UnlockSuccess records a successful unlock at the given time.
func UnlockSuccess(remaining int, at time.Time) Action {
	return Action{Type: ActionUnlockSuccess, RemainingRecoveryCodes: remaining, At: at}
}

// SetupComplete records first-time setup; the fresh key is already usable.
func SetupComplete(remaining int, at time.Time) Action {
	return Action{Type: ActionSetupComplete, RemainingRecoveryCodes: remaining, At: at}
}

func RecoveryCodesUpdated(remaining int) Action {
	return Action{Type: ActionRecoveryCodesUpdated, RemainingRecoveryCodes: remaining}
}

func UnlockFailure(err *crypto.EncryptionError) Action {
	return Action{Type: ActionUnlockFailure, Err: err}
}

func Failure(err *crypto.EncryptionError) Action {
	return Action{Type: ActionFailure, Err: err}
}
