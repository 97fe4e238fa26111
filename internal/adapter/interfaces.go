// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter lets the zkvault CLI keep its bundles on a remote bundle
// server instead of the local SQLite file.
//
// The HTTP implementation satisfies store.BundleStorage, so the vault service
// cannot tell the two apart. Wire error codes are mapped back to the store
// sentinels, which keeps errors.Is checks such as
// store.ErrRecoveryCodeAlreadyUsed working across the network.
package adapter

import (
	"github.com/MKhiriev/go-zk-vault/internal/store"
)

// BundleStorage is the remote face of store.BundleStorage. The server derives
// the user from the bearer token; the userID arguments are only checked
// against it.
type BundleStorage interface {
	store.BundleStorage
}
