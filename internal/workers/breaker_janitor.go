// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
)

type breakerJanitor struct {
	breakers Pruner
	interval time.Duration
	ttl      time.Duration

	logger *logger.Logger
}

// NewBreakerJanitor prunes idle closed breakers every interval, so that
// conversations seen once do not keep a breaker forever. A non-positive
// interval or ttl disables it.
func NewBreakerJanitor(breakers Pruner, interval, ttl time.Duration, logger *logger.Logger) Worker {
	logger.Debug().Msg("creating breaker janitor...")
	return &breakerJanitor{breakers: breakers, interval: interval, ttl: ttl, logger: logger}
}

func (j *breakerJanitor) Run(ctx context.Context) {
	if j.interval <= 0 || j.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := j.breakers.Prune(j.ttl); n > 0 {
				j.logger.Debug().Str("func", "*breakerJanitor.Run").Int("pruned", n).Msg("idle breakers pruned")
			}
		}
	}
}
