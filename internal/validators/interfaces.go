// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the shape of key material received by the
// bundle server: base64 lengths of salts, IVs and wrapped keys, and the
// internal consistency of recovery bundles.
//
// Validators see only public material. They cannot tell whether a wrapped
// key opens; that is decided on the client.
package validators

import "context"

// Validator validates obj, optionally restricted to the named fields.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
