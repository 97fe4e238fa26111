// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
)

// runBlocking runs fn on its own goroutine and waits for it or for ctx.
// Key derivation cannot be interrupted, so on ctx expiry fn keeps running;
// whatever it eventually returns is handed to discard. The caller gets a
// retryable UNKNOWN error.
func runBlocking[T any](ctx context.Context, fn func() (T, error), discard func(T)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, crypto.NewEncryptionError(crypto.CodeUnknown, "", err)
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)

	go func() {
		v, err := fn()
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		go func() {
			r := <-done
			if r.err == nil && discard != nil {
				discard(r.value)
			}
		}()
		return zero, crypto.NewEncryptionError(crypto.CodeUnknown, "", ctx.Err())
	}
}
