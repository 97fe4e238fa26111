// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http is the REST face of the bundle server.
//
// It stores and returns wrapped key material only: every body it accepts is
// already encrypted on the client. Requests pass trace id, access log and
// bearer authentication middleware before reaching the bundle service.
package http
