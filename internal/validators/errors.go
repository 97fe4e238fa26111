package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidSalt           = errors.New("invalid salt")
	ErrInvalidIV             = errors.New("invalid iv")
	ErrInvalidWrappedKey     = errors.New("invalid wrapped key")
	ErrInvalidCodeHash       = errors.New("invalid recovery code hash")
	ErrEmptyCodeHashes       = errors.New("recovery bundle has no code hashes")
	ErrDuplicateCodeHash     = errors.New("duplicate recovery code hash")
	ErrWrappedKeysMismatch   = errors.New("wrapped keys do not match code hashes")
	ErrUsedCodeNotInBundle   = errors.New("used code is not part of the bundle")
	ErrMissingRecoveryBundle = errors.New("recovery bundle is required")
)
