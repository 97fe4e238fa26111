package service

import (
	"errors"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
)

var (
	ErrRecoveryCodeAlreadyUsed = errors.New("recovery code has already been used")
	ErrInvalidRecoveryCode     = errors.New("invalid recovery code")
	ErrAlreadySetUp            = errors.New("encryption is already set up")
	ErrUnlockInProgress        = errors.New("unlock already in progress")
	ErrEmptyPassword           = errors.New("password must not be empty")

	ErrInvalidDataProvided = errors.New("invalid data provided")
)

// recoveryCodeUsedError is fatal: retrying the same code can never succeed.
func recoveryCodeUsedError() *crypto.EncryptionError {
	return crypto.NewEncryptionError(crypto.CodeWrongPassword, "This recovery code has already been used.", ErrRecoveryCodeAlreadyUsed)
}

func invalidRecoveryCodeError() *crypto.EncryptionError {
	return crypto.NewEncryptionError(crypto.CodeWrongPassword, "Invalid recovery code.", ErrInvalidRecoveryCode)
}

func notSetupError(err error) *crypto.EncryptionError {
	return crypto.NewEncryptionError(crypto.CodeNotSetup, "", err)
}

func emptyPasswordError() *crypto.EncryptionError {
	return crypto.NewEncryptionError(crypto.CodeInvalidFormat, "", ErrEmptyPassword)
}
