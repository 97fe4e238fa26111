// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCodes = []Code{
	CodeLocked, CodeNotSetup, CodeWrongPassword, CodeCorruptedData,
	CodeInvalidFormat, CodeKeyMismatch, CodeExportFailed, CodeImportFailed,
	CodeWrapFailed, CodeSessionExpired, CodeRateLimited, CodeUnknown,
}

func TestEncryptionError_Predicates(t *testing.T) {
	userAction := map[Code]bool{CodeLocked: true, CodeWrongPassword: true, CodeRateLimited: true}
	corruption := map[Code]bool{CodeCorruptedData: true, CodeInvalidFormat: true, CodeKeyMismatch: true}
	retryable := map[Code]bool{CodeSessionExpired: true, CodeUnknown: true}

	for _, code := range allCodes {
		t.Run(string(code), func(t *testing.T) {
			e := NewEncryptionError(code, "", nil)
			assert.Equal(t, userAction[code], e.RequiresUserAction())
			assert.Equal(t, corruption[code], e.IsDataCorruption())
			assert.Equal(t, retryable[code], e.IsRetryable())
			assert.NotEmpty(t, e.UserMessage())
			assert.Equal(t, e.UserMessage(), UserMessage(code))
		})
	}
}

func TestEncryptionError_WrongPasswordMessage(t *testing.T) {
	e := NewEncryptionError(CodeWrongPassword, "technical detail", nil)
	assert.Equal(t, "Incorrect password. Please try again.", e.UserMessage())
	assert.Equal(t, "technical detail", e.Message)
}

func TestEncryptionError_UnknownCodeFallsBack(t *testing.T) {
	e := NewEncryptionError(Code("BOGUS"), "", nil)
	assert.Equal(t, CodeUnknown, e.Code)
}

func TestEncryptionError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := fmt.Errorf("ctx: %w", NewEncryptionError(CodeLocked, "", cause))

	assert.ErrorIs(t, err, &EncryptionError{Code: CodeLocked})
	assert.NotErrorIs(t, err, &EncryptionError{Code: CodeUnknown})
	assert.ErrorIs(t, err, cause)

	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, CodeLocked, code)

	_, ok = CodeOf(cause)
	assert.False(t, ok)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		authTag Code
		want    Code
	}{
		{name: "auth tag as password", err: newError("unwrap", KindAuthTag, nil), authTag: CodeWrongPassword, want: CodeWrongPassword},
		{name: "auth tag as mismatch", err: newError("decrypt", KindAuthTag, nil), authTag: CodeKeyMismatch, want: CodeKeyMismatch},
		{name: "format", err: newError("decode", KindFormat, nil), authTag: CodeKeyMismatch, want: CodeInvalidFormat},
		{name: "truncated", err: newError("split", KindTruncated, nil), authTag: CodeKeyMismatch, want: CodeCorruptedData},
		{name: "destroyed", err: newError("encrypt", KindKeyDestroyed, nil), authTag: CodeKeyMismatch, want: CodeLocked},
		{name: "export", err: newError("export", KindExport, nil), authTag: CodeKeyMismatch, want: CodeExportFailed},
		{name: "import", err: newError("import", KindImport, nil), authTag: CodeKeyMismatch, want: CodeImportFailed},
		{name: "enclave failure during decrypt", err: newError("decrypt", KindOther, errors.New("open enclave: failed")), authTag: CodeKeyMismatch, want: CodeUnknown},
		{name: "random source", err: newError("random", KindRandom, errors.New("entropy exhausted")), authTag: CodeKeyMismatch, want: CodeUnknown},
		{name: "json parse", err: fmt.Errorf("%w: x", ErrJSONParse), authTag: CodeKeyMismatch, want: CodeCorruptedData},
		{name: "deadline", err: context.DeadlineExceeded, authTag: CodeKeyMismatch, want: CodeUnknown},
		{name: "passthrough", err: NewEncryptionError(CodeRateLimited, "", nil), authTag: CodeKeyMismatch, want: CodeRateLimited},
		{name: "foreign locked", err: errors.New("Vault is LOCKED"), authTag: CodeKeyMismatch, want: CodeLocked},
		{name: "foreign tag", err: errors.New("OperationError: tag mismatch"), authTag: CodeKeyMismatch, want: CodeKeyMismatch},
		{name: "foreign decrypt", err: errors.New("failed to decrypt"), authTag: CodeKeyMismatch, want: CodeCorruptedData},
		{name: "foreign other", err: errors.New("boom"), authTag: CodeKeyMismatch, want: CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err, tt.authTag)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Code)
		})
	}

	assert.Nil(t, ClassifyError(nil, CodeUnknown))
}

func TestErrorKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", newError("decrypt", KindAuthTag, errors.New("cipher: message authentication failed")))

	assert.Equal(t, KindAuthTag, KindOf(err))
	assert.Equal(t, KindOther, KindOf(errors.New("plain")))
	assert.ErrorIs(t, err, ErrAuthTag)
	assert.NotErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), "decrypt")
	assert.Equal(t, "unknown", Kind(200).String())
}
