// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the background loops of an interactive zkvault
// session: locking an idle key and pruning unused circuit breakers.
package workers

import (
	"context"
	"time"
)

// Worker runs until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

// IdleLocker is the part of a key session the auto-lock loop needs.
type IdleLocker interface {
	Unlocked() bool
	IdleFor() time.Duration
	IdleTimeout() time.Duration
	Lock()
}

// Pruner drops breakers that have been idle for longer than ttl.
type Pruner interface {
	Prune(ttl time.Duration) int
}
