// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Token is the bearer credential a vault client presents to the bundle server.
//
// The server never sees key material, so the token only identifies whose
// bundles a request may touch.
type Token struct {
	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"token"`

	// UserID is the owner of the bundles, taken from the "sub" claim.
	UserID int64 `json:"userId"`

	// ExpiresAt mirrors the "exp" claim. Zero when the token does not expire.
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// String returns the compact serialization.
func (t Token) String() string {
	return t.SignedString
}

// Expired reports whether the token is past its expiry at now.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}
