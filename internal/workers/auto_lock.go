// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
)

const minAutoLockInterval = time.Second

type autoLockWorker struct {
	session  IdleLocker
	interval time.Duration
	onLock   func()

	logger *logger.Logger
}

// NewAutoLockWorker locks session once it has been idle for its IdleTimeout.
// A zero IdleTimeout disables the worker. onLock may be nil.
func NewAutoLockWorker(session IdleLocker, onLock func(), logger *logger.Logger) Worker {
	logger.Debug().Msg("creating auto-lock worker...")

	interval := session.IdleTimeout() / 4
	if interval < minAutoLockInterval {
		interval = minAutoLockInterval
	}
	return &autoLockWorker{session: session, interval: interval, onLock: onLock, logger: logger}
}

func (a *autoLockWorker) Run(ctx context.Context) {
	if a.session.IdleTimeout() <= 0 {
		return
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.check()
		}
	}
}

func (a *autoLockWorker) check() {
	if !a.session.Unlocked() {
		return
	}
	idle := a.session.IdleFor()
	if idle < a.session.IdleTimeout() {
		return
	}

	a.session.Lock()
	a.logger.Info().Str("func", "*autoLockWorker.check").Dur("idle", idle).Msg("session locked after inactivity")
	if a.onLock != nil {
		a.onLock()
	}
}
