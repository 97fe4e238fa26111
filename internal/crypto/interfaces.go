// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_service_mock.go -package=mock

// KeyChainService groups the primitives the service layer needs. It knows
// nothing about storage, users or the network.
//
// Setup flow:
//
//	salt    = GenerateSalt()
//	KEK     = DeriveKey(password, salt)
//	DEK     = GenerateDataKey()
//	wrapped = Wrap(DEK, KEK)
type KeyChainService interface {
	GenerateSalt() ([]byte, error)
	GenerateDataKey() (*ExportableKey, error)

	// DeriveKey runs PBKDF2-HMAC-SHA256 over secret and salt.
	DeriveKey(secret string, salt []byte) (*SealedKey, error)

	Wrap(dek *ExportableKey, kek Key) (WrappedKey, error)
	Unwrap(wrapped WrappedKey, kek Key) (*ExportableKey, error)

	Encrypt(plaintext string, key Key) (string, error)
	Decrypt(blob string, key Key) (string, error)
}
