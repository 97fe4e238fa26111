// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"errors"
	"fmt"
)

// Kind tags a primitive failure with its structural cause so that callers
// classify errors without inspecting message text.
type Kind uint8

const (
	KindOther Kind = iota
	// KindAuthTag is an AES-GCM authentication failure: wrong key, tampered
	// ciphertext or tampered IV. These cases are indistinguishable.
	KindAuthTag
	// KindFormat is malformed input: bad base64, wrong IV or salt length,
	// empty password.
	KindFormat
	// KindTruncated is a ciphertext too short to hold an IV and a tag.
	KindTruncated
	KindKeyDestroyed
	KindExport
	KindImport
	KindRandom
)

var kindNames = map[Kind]string{
	KindOther:        "other",
	KindAuthTag:      "authentication tag mismatch",
	KindFormat:       "invalid format",
	KindTruncated:    "truncated ciphertext",
	KindKeyDestroyed: "key destroyed",
	KindExport:       "key export failed",
	KindImport:       "key import failed",
	KindRandom:       "random source failed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Sentinels matching each Kind through errors.Is.
var (
	ErrAuthTag      = errors.New("authentication tag mismatch")
	ErrFormat       = errors.New("invalid format")
	ErrTruncated    = errors.New("truncated ciphertext")
	ErrKeyDestroyed = errors.New("key destroyed")
	ErrKeyExport    = errors.New("key export failed")
	ErrKeyImport    = errors.New("key import failed")
	ErrRandom       = errors.New("random source failed")
)

// JSON failures are reported separately from decryption failures.
var (
	ErrJSONMarshal = errors.New("error marshaling payload to JSON")
	ErrJSONParse   = errors.New("decrypted payload is not valid JSON")
)

var kindSentinels = map[Kind]error{
	KindAuthTag:      ErrAuthTag,
	KindFormat:       ErrFormat,
	KindTruncated:    ErrTruncated,
	KindKeyDestroyed: ErrKeyDestroyed,
	KindExport:       ErrKeyExport,
	KindImport:       ErrKeyImport,
	KindRandom:       ErrRandom,
}

// Error is the structured error returned by every primitive in this package.
type Error struct {
	// Op is the primitive that failed, e.g. "decrypt" or "unwrap".
	Op   string
	Kind Kind
	Err  error
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("crypto %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("crypto %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf returns the Kind of the first *Error in err's chain, or KindOther.
func KindOf(err error) Kind {
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Kind
	}
	return KindOther
}

// IsKind reports whether err carries a primitive error of the given kind.
func IsKind(err error, kind Kind) bool {
	var cErr *Error
	return errors.As(err, &cErr) && cErr.Kind == kind
}
