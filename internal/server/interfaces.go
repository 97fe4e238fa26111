// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server is the lifecycle of the bundle API transport.
type Server interface {
	// RunServer serves until ctx is cancelled or a termination signal
	// arrives, then shuts down gracefully.
	RunServer(ctx context.Context) error

	// Shutdown stops accepting requests and waits for in-flight ones.
	Shutdown(ctx context.Context) error
}
