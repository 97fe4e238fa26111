// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Code is the user-facing classification of an encryption failure.
type Code string

const (
	CodeLocked         Code = "LOCKED"
	CodeNotSetup       Code = "NOT_SETUP"
	CodeWrongPassword  Code = "WRONG_PASSWORD"
	CodeCorruptedData  Code = "CORRUPTED_DATA"
	CodeInvalidFormat  Code = "INVALID_FORMAT"
	CodeKeyMismatch    Code = "KEY_MISMATCH"
	CodeExportFailed   Code = "EXPORT_FAILED"
	CodeImportFailed   Code = "IMPORT_FAILED"
	CodeWrapFailed     Code = "WRAP_FAILED"
	CodeSessionExpired Code = "SESSION_EXPIRED"
	CodeRateLimited    Code = "RATE_LIMITED"
	CodeUnknown        Code = "UNKNOWN"
)

// codeDefinition describes how a Code is presented and handled.
type codeDefinition struct {
	message        string
	userAction     bool
	dataCorruption bool
	retryable      bool
}

var codeDefinitions = map[Code]codeDefinition{
	CodeLocked: {
		message:    "Your encrypted data is locked. Enter your encryption password to continue.",
		userAction: true,
	},
	CodeNotSetup: {
		message: "Encryption has not been set up for this account yet.",
	},
	CodeWrongPassword: {
		message:    "Incorrect password. Please try again.",
		userAction: true,
	},
	CodeCorruptedData: {
		message:        "This data appears to be corrupted and cannot be decrypted.",
		dataCorruption: true,
	},
	CodeInvalidFormat: {
		message:        "This data is not in a recognized encrypted format.",
		dataCorruption: true,
	},
	CodeKeyMismatch: {
		message:        "This data was encrypted with a different key and cannot be decrypted.",
		dataCorruption: true,
	},
	CodeExportFailed: {
		message: "Your encryption key could not be exported. Please try again.",
	},
	CodeImportFailed: {
		message: "Your encryption key could not be loaded. The stored key may be damaged.",
	},
	CodeWrapFailed: {
		message: "Your encryption key could not be secured. Please try again.",
	},
	CodeSessionExpired: {
		message:   "Your session has expired. Please try again.",
		retryable: true,
	},
	CodeRateLimited: {
		message:    "Too many attempts. Please wait a moment before trying again.",
		userAction: true,
	},
	CodeUnknown: {
		message:   "An unexpected encryption error occurred. Please try again.",
		retryable: true,
	},
}

// EncryptionError is the classified error surfaced to callers of the
// service layer.
type EncryptionError struct {
	Code    Code
	Message string
	Err     error
}

// NewEncryptionError builds an EncryptionError. An empty message defaults
// to the code's user message.
func NewEncryptionError(code Code, message string, err error) *EncryptionError {
	if _, ok := codeDefinitions[code]; !ok {
		code = CodeUnknown
	}
	if message == "" {
		message = codeDefinitions[code].message
	}
	return &EncryptionError{Code: code, Message: message, Err: err}
}

func (e *EncryptionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *EncryptionError) Unwrap() error {
	return e.Err
}

// Is matches any *EncryptionError with the same Code, so
// errors.Is(err, &EncryptionError{Code: CodeLocked}) works as a code check.
func (e *EncryptionError) Is(target error) bool {
	t, ok := target.(*EncryptionError)
	return ok && t.Code == e.Code
}

// UserMessage returns the fixed non-technical message for e.Code.
func (e *EncryptionError) UserMessage() string {
	return codeDefinitions[e.Code].message
}

// RequiresUserAction reports whether the user must re-enter credentials or
// wait before retrying.
func (e *EncryptionError) RequiresUserAction() bool {
	return codeDefinitions[e.Code].userAction
}

// IsDataCorruption reports whether the stored data itself is unusable.
func (e *EncryptionError) IsDataCorruption() bool {
	return codeDefinitions[e.Code].dataCorruption
}

// IsRetryable reports whether repeating the same call may succeed.
func (e *EncryptionError) IsRetryable() bool {
	return codeDefinitions[e.Code].retryable
}

// UserMessage returns the fixed message for code.
func UserMessage(code Code) string {
	if def, ok := codeDefinitions[code]; ok {
		return def.message
	}
	return codeDefinitions[CodeUnknown].message
}

// CodeOf returns the code of the first *EncryptionError in err's chain.
func CodeOf(err error) (Code, bool) {
	var encErr *EncryptionError
	if errors.As(err, &encErr) {
		return encErr.Code, true
	}
	return "", false
}

// ClassifyError maps err onto the taxonomy. authTagCode decides what an
// authentication tag failure means at the call site: WRONG_PASSWORD when
// unwrapping with a password-derived key, KEY_MISMATCH when decrypting
// content.
func ClassifyError(err error, authTagCode Code) *EncryptionError {
	if err == nil {
		return nil
	}

	var encErr *EncryptionError
	if errors.As(err, &encErr) {
		return encErr
	}

	var cErr *Error
	if errors.As(err, &cErr) {
		switch cErr.Kind {
		case KindAuthTag:
			return NewEncryptionError(authTagCode, "", err)
		case KindFormat:
			return NewEncryptionError(CodeInvalidFormat, "", err)
		case KindTruncated:
			return NewEncryptionError(CodeCorruptedData, "", err)
		case KindKeyDestroyed:
			return NewEncryptionError(CodeLocked, "", err)
		case KindExport:
			return NewEncryptionError(CodeExportFailed, "", err)
		case KindImport:
			return NewEncryptionError(CodeImportFailed, "", err)
		case KindOther, KindRandom:
			// the op name is not evidence of corrupted data
			return NewEncryptionError(CodeUnknown, "", err)
		}
	}

	if errors.Is(err, ErrJSONParse) {
		return NewEncryptionError(CodeCorruptedData, "", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewEncryptionError(CodeUnknown, "", err)
	}

	return classifyMessage(err, authTagCode)
}

// classifyMessage handles errors that did not come from this package.
func classifyMessage(err error, authTagCode Code) *EncryptionError {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "locked"):
		return NewEncryptionError(CodeLocked, "", err)
	case strings.Contains(msg, "not set up"), strings.Contains(msg, "not setup"):
		return NewEncryptionError(CodeNotSetup, "", err)
	case strings.Contains(msg, "authentication"), strings.Contains(msg, "tag"):
		return NewEncryptionError(authTagCode, "", err)
	case strings.Contains(msg, "base64"), strings.Contains(msg, "format"):
		return NewEncryptionError(CodeInvalidFormat, "", err)
	case strings.Contains(msg, "decrypt"):
		return NewEncryptionError(CodeCorruptedData, "", err)
	}
	return NewEncryptionError(CodeUnknown, "", err)
}
