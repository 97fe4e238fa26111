// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EncryptionKeyBundle is the persisted form of a user's data key wrapped
// under the password-derived key. All fields are base64 and safe to store
// on an untrusted server.
type EncryptionKeyBundle struct {
	// Salt is the 16-byte PBKDF2 salt.
	Salt string `json:"salt"`

	// WrappedDataKey is AES-GCM(KEK, DEK) including the 16-byte tag.
	WrappedDataKey string `json:"wrappedDataKey"`

	// WrappedKeyIV is the 12-byte nonce used to wrap the data key.
	WrappedKeyIV string `json:"wrappedKeyIV"`
}

// IsZero reports whether no bundle is present.
func (b EncryptionKeyBundle) IsZero() bool {
	return b.Salt == "" && b.WrappedDataKey == "" && b.WrappedKeyIV == ""
}

// TableName returns the name of the database table
// associated with the EncryptionKeyBundle model.
func (b EncryptionKeyBundle) TableName() string {
	return "key_bundles"
}
