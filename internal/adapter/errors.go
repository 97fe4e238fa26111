// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	ErrUnauthorized       = errors.New("client unauthorized")
	ErrBadRequest         = errors.New("bad request")
	ErrServerError        = errors.New("bundle server error")
	ErrUnexpectedResponse = errors.New("unexpected response")
	ErrUserMismatch       = errors.New("user does not match token subject")
	ErrEmptyAddress       = errors.New("empty address")
)
