// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrEmptyAuthorizationHeader is returned when the request has no
	// "Authorization" header.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrNoUserInContext means a protected route ran without the auth middleware.
	ErrNoUserInContext = errors.New("no user in request context")
)
