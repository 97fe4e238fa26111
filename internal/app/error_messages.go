// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app holds the user-facing wording of the zkvault CLI: fixed
// messages and the hint shown under an error.
//
// Messages never contain key material, codes or stack traces. The detailed
// error goes to the log file; the terminal gets [Describe].
package app

import (
	"errors"

	"github.com/MKhiriev/go-zk-vault/internal/adapter"
	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/service"
)

const (
	MsgPasswordsDoNotMatch = "passwords do not match"
	MsgEmptyInput          = "input must not be empty"
	MsgSetupComplete       = "Encryption is set up."
	MsgUnlocked            = "Unlocked."
	MsgLocked              = "Locked."
	MsgAutoLocked          = "Session locked after inactivity."
	MsgPasswordChanged     = "Password changed. Your recovery codes still work."
	MsgPasswordReset       = "Password reset. The recovery code you used is now spent."
	MsgCodesWarning        = "Store these codes somewhere safe. Each works once and they will not be shown again."
	MsgCodesCopied         = "Codes copied to the clipboard."
	MsgCopyFailed          = "Could not copy to the clipboard."
	MsgOldCodesInvalid     = "Your previous recovery codes no longer work."
	MsgLowRecoveryCodes    = "You are running low on recovery codes. Run `zkvault codes regenerate`."
	MsgNoRecoveryCodes     = "You have no recovery codes left. Run `zkvault codes regenerate` now."
	MsgUnknownCommand      = "unknown command, type `help`"
)

// LowRecoveryCodes is the count at or below which the CLI nags.
const LowRecoveryCodes = 3

// Message is the terminal rendering of an error.
type Message struct {
	Text string
	// Hint is the next step, or empty.
	Hint string
}

var sentinelHints = []struct {
	err  error
	hint string
}{
	{service.ErrRecoveryCodeAlreadyUsed, "Each code works once. Use another code from your list."},
	{service.ErrInvalidRecoveryCode, "Codes look like XXXX-XXXX-XXXX. Case and dashes do not matter."},
	{service.ErrAlreadySetUp, "Run `zkvault unlock` instead."},
	{service.ErrEmptyPassword, "The password must not be empty."},
	{adapter.ErrUnauthorized, "Check ADAPTER_TOKEN: it is missing, expired or signed with another key."},
	{adapter.ErrUserMismatch, "The --user flag does not match the token's user."},
	{adapter.ErrServerError, "The bundle server failed. Try again later."},
}

var codeHints = map[crypto.Code]string{
	crypto.CodeLocked:         "Run `zkvault unlock` or start `zkvault session`.",
	crypto.CodeNotSetup:       "Run `zkvault setup` first.",
	crypto.CodeWrongPassword:  "Forgot it? Run `zkvault reset-password` with a recovery code.",
	crypto.CodeRateLimited:    "Wait a few seconds before the next attempt.",
	crypto.CodeSessionExpired: "Unlock again.",
	crypto.CodeKeyMismatch:    "The data was encrypted by another account or before a reset of the whole vault.",
}

// Describe renders err for the terminal.
func Describe(err error) Message {
	if err == nil {
		return Message{}
	}

	var msg Message
	var encErr *crypto.EncryptionError
	if errors.As(err, &encErr) {
		msg.Text = encErr.Message
		msg.Hint = codeHints[encErr.Code]
	} else {
		msg.Text = err.Error()
	}

	for _, s := range sentinelHints {
		if errors.Is(err, s.err) {
			msg.Hint = s.hint
			break
		}
	}
	return msg
}

// RecoveryCodesNotice returns the nag for remaining codes, or "".
func RecoveryCodesNotice(remaining int) string {
	switch {
	case remaining <= 0:
		return MsgNoRecoveryCodes
	case remaining <= LowRecoveryCodes:
		return MsgLowRecoveryCodes
	}
	return ""
}
