// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// KeyStatus summarizes what the persistence layer holds for a user without
// returning any wrapped material.
type KeyStatus struct {
	HasKeyBundle           bool `json:"hasKeyBundle"`
	HasRecoveryBundle      bool `json:"hasRecoveryBundle"`
	RemainingRecoveryCodes int  `json:"remainingRecoveryCodes"`
}

// ErrorResponse is the JSON body returned by the bundle API on failure.
// Code mirrors the sentinel so that clients can map it back without
// parsing the message.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Wire error codes carried in ErrorResponse.Code.
const (
	ErrorCodeInvalidData         = "invalid_data"
	ErrorCodeUnauthorized        = "unauthorized"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeAlreadyExists       = "already_exists"
	ErrorCodeRecoveryCodeUsed    = "recovery_code_used"
	ErrorCodeRecoveryCodeUnknown = "recovery_code_unknown"
	ErrorCodeInternal            = "internal"
)
