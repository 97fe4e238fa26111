// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct{}

// NewKeyChainService returns the default [KeyChainService]: PBKDF2-SHA256
// with 100 000 iterations and AES-256-GCM.
func NewKeyChainService() KeyChainService {
	return &keyChainService{}
}

func (k *keyChainService) GenerateSalt() ([]byte, error) {
	return GenerateSalt()
}

func (k *keyChainService) GenerateDataKey() (*ExportableKey, error) {
	return GenerateDataKey()
}

func (k *keyChainService) DeriveKey(secret string, salt []byte) (*SealedKey, error) {
	return DeriveKeyFromPassword(secret, salt)
}

func (k *keyChainService) Wrap(dek *ExportableKey, kek Key) (WrappedKey, error) {
	return WrapDataKey(dek, kek)
}

func (k *keyChainService) Unwrap(wrapped WrappedKey, kek Key) (*ExportableKey, error) {
	return UnwrapDataKey(wrapped.WrappedKey, wrapped.IV, kek)
}

func (k *keyChainService) Encrypt(plaintext string, key Key) (string, error) {
	return Encrypt(plaintext, key)
}

func (k *keyChainService) Decrypt(blob string, key Key) (string, error) {
	return Decrypt(blob, key)
}
