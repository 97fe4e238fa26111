// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package resilience classifies decryption outcomes and stops repeated
// failing decryptions with a per-context circuit breaker.
package resilience

import (
	"sync"
	"time"
)

// State is a circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	}
	return "unknown"
}

// Outcome is what a guarded call reports back to its breaker.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
	// OutcomeIgnored is an expected failure (locked, not set up) that must
	// not count towards opening the circuit.
	OutcomeIgnored
)

// Config tunes a breaker.
type Config struct {
	// FailureThreshold failures within Window open the circuit.
	FailureThreshold int
	Window           time.Duration
	// ResetTimeout is how long the circuit stays open before one probe.
	ResetTimeout time.Duration
}

// DefaultConfig is 5 failures per 60s, 30s open.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		Window:           60 * time.Second,
		ResetTimeout:     30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.Window <= 0 {
		c.Window = def.Window
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = def.ResetTimeout
	}
	return c
}

// Clock returns the current time.
type Clock func() time.Time

// Breaker is a sliding-window circuit breaker. It is safe for concurrent use.
type Breaker struct {
	mu  sync.Mutex
	cfg Config
	now Clock

	state    State
	failures []time.Time
	openedAt time.Time
	probing  bool
	lastUsed time.Time

	onTransition func(from, to State)
}

// NewBreaker returns a closed breaker. A nil clock means time.Now.
func NewBreaker(cfg Config, clock Clock) *Breaker {
	if clock == nil {
		clock = time.Now
	}
	return &Breaker{
		cfg:      cfg.withDefaults(),
		now:      clock,
		state:    StateClosed,
		lastUsed: clock(),
	}
}

// State returns the current state without advancing it.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call may proceed. Once the reset timeout has
// elapsed it lets exactly one probe through; other callers are refused
// until the probe reports back.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.lastUsed = now

	switch b.state {
	case StateOpen:
		if now.Sub(b.openedAt) < b.cfg.ResetTimeout {
			return false
		}
		b.transition(StateHalfOpen)
		b.probing = true
		return true
	case StateHalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	}
	return true
}

// Record reports the outcome of a call that Allow admitted.
func (b *Breaker) Record(o Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.lastUsed = now

	switch o {
	case OutcomeSuccess:
		if b.state == StateHalfOpen {
			b.failures = nil
			b.probing = false
			b.transition(StateClosed)
		}

	case OutcomeFailure:
		switch b.state {
		case StateHalfOpen:
			b.open(now)
		case StateClosed:
			b.failures = append(b.pruned(now), now)
			if len(b.failures) >= b.cfg.FailureThreshold {
				b.open(now)
			}
		}

	case OutcomeIgnored:
		// the probe slot is handed to the next caller
		if b.state == StateHalfOpen {
			b.probing = false
		}
	}
}

// Execute runs fn if the circuit admits it. executed is false when the
// call was short-circuited.
func (b *Breaker) Execute(fn func() Outcome) (executed bool) {
	if !b.Allow() {
		return false
	}
	b.Record(fn())
	return true
}

// Reset closes the circuit and forgets all failures.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = nil
	b.probing = false
	b.transition(StateClosed)
}

// Failures returns the number of failures inside the current window.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pruned(b.now()))
}

func (b *Breaker) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed
}

func (b *Breaker) open(now time.Time) {
	b.failures = nil
	b.probing = false
	b.openedAt = now
	b.transition(StateOpen)
}

// pruned drops failures older than the window. Callers hold mu.
func (b *Breaker) pruned(now time.Time) []time.Time {
	cutoff := now.Add(-b.cfg.Window)
	i := 0
	for i < len(b.failures) && !b.failures[i].After(cutoff) {
		i++
	}
	b.failures = b.failures[i:]
	return b.failures
}

func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if b.onTransition != nil {
		b.onTransition(from, to)
	}
}
