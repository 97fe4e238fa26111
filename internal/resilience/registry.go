// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package resilience

import (
	"sync"
	"time"
)

// DefaultContext is the breaker key used when none is given.
const DefaultContext = "default"

// TransitionHook observes state changes of any breaker in a registry. It
// is called with the breaker's lock held and must not call back into it.
type TransitionHook func(key string, from, to State)

// Registry owns one Breaker per context key. Construct one per process (or
// per test) and pass it to whoever needs it.
type Registry struct {
	mu       sync.Mutex
	cfg      Config
	clock    Clock
	hook     TransitionHook
	breakers map[string]*Breaker
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock replaces time.Now, for tests.
func WithClock(clock Clock) RegistryOption {
	return func(r *Registry) {
		r.clock = clock
	}
}

// WithTransitionHook installs hook on every breaker the registry creates.
func WithTransitionHook(hook TransitionHook) RegistryOption {
	return func(r *Registry) {
		r.hook = hook
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(cfg Config, opts ...RegistryOption) *Registry {
	r := &Registry{
		cfg:      cfg.withDefaults(),
		clock:    time.Now,
		breakers: make(map[string]*Breaker),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the breaker for key, creating it if needed.
func (r *Registry) Get(key string) *Breaker {
	if key == "" {
		key = DefaultContext
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.breakers[key]; ok {
		return b
	}

	b := NewBreaker(r.cfg, r.clock)
	if r.hook != nil {
		hook := r.hook
		b.onTransition = func(from, to State) {
			hook(key, from, to)
		}
	}
	r.breakers[key] = b
	return b
}

// Reset closes the breaker for key if it exists.
func (r *Registry) Reset(key string) {
	if key == "" {
		key = DefaultContext
	}

	r.mu.Lock()
	b, ok := r.breakers[key]
	r.mu.Unlock()

	if ok {
		b.Reset()
	}
}

// ResetAll drops every breaker.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakers = make(map[string]*Breaker)
}

// Prune drops closed breakers unused for longer than idle and returns how
// many were removed. Open and half-open breakers are kept.
func (r *Registry) Prune(idle time.Duration) int {
	now := r.clock()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, b := range r.breakers {
		if b.State() != StateClosed {
			continue
		}
		if now.Sub(b.idleSince()) > idle {
			delete(r.breakers, key)
			removed++
		}
	}
	return removed
}

// Snapshot returns the state of every breaker.
func (r *Registry) Snapshot() map[string]State {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]State, len(r.breakers))
	for key, b := range r.breakers {
		out[key] = b.State()
	}
	return out
}

// Len returns the number of tracked contexts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.breakers)
}
