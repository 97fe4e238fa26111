// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils holds small helpers shared by the vault server and client:
// request-scoped context values, JSON responses, bearer tokens, id generation
// and the preconfigured HTTP client used by the remote bundle adapter.
package utils

import (
	"context"
)

type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey stores the authenticated user id (int64) in a request context.
var UserIDCtxKey = contextKey("userID")

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDCtxKey, userID)
}

// GetUserIDFromContext returns the user id set by WithUserID.
// ok is false when the value is missing or has an unexpected type.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}
