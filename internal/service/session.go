// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/lifecycle"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Session holds the unlocked data key of one user in memory. The key is
// never persisted; Lock destroys it.
type Session struct {
	mu           sync.Mutex
	key          *crypto.SealedKey
	lastActivity time.Time

	machine     *lifecycle.Machine
	limiter     *rate.Limiter
	unlocks     singleflight.Group
	idleTimeout time.Duration
	now         func() time.Time
}

func NewSession(sessionCfg config.Session, cryptoCfg config.Crypto) *Session {
	limit := rate.Inf
	if cryptoCfg.UnlockRate > 0 {
		limit = rate.Limit(cryptoCfg.UnlockRate)
	}
	burst := cryptoCfg.UnlockBurst
	if burst <= 0 {
		burst = 1
	}

	return &Session{
		machine:     lifecycle.NewMachine(),
		limiter:     rate.NewLimiter(limit, burst),
		idleTimeout: sessionCfg.IdleTimeout,
		now:         time.Now,
	}
}

// Key returns the data key, or a LOCKED error when there is none.
func (s *Session) Key() (*crypto.SealedKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil || s.key.Destroyed() {
		return nil, crypto.NewEncryptionError(crypto.CodeLocked, "", nil)
	}
	s.lastActivity = s.now()
	return s.key, nil
}

// setKey installs key, destroying any previous one.
func (s *Session) setKey(key *crypto.SealedKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil && s.key != key {
		s.key.Destroy()
	}
	s.key = key
	s.lastActivity = s.now()
}

// Lock destroys the key. The lifecycle goes back to locked; the bundle is
// known to exist since the session was unlocked.
func (s *Session) Lock() {
	s.mu.Lock()
	if s.key != nil {
		s.key.Destroy()
		s.key = nil
	}
	s.mu.Unlock()

	if s.machine.State().IsUnlocked() {
		s.machine.Dispatch(lifecycle.Lock())
		s.machine.Dispatch(lifecycle.KeysFound())
	}
}

func (s *Session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key != nil && !s.key.Destroyed()
}

func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActivity = s.now()
	s.mu.Unlock()
}

// IdleFor is the time since the key was last used. It is zero while locked.
func (s *Session) IdleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return 0
	}
	return s.now().Sub(s.lastActivity)
}

func (s *Session) IdleTimeout() time.Duration {
	return s.idleTimeout
}

func (s *Session) Machine() *lifecycle.Machine {
	return s.machine
}

func (s *Session) State() lifecycle.State {
	return s.machine.State()
}

// allowAttempt consumes one password or recovery code attempt.
func (s *Session) allowAttempt() error {
	if !s.limiter.Allow() {
		return crypto.NewEncryptionError(crypto.CodeRateLimited, "", nil)
	}
	return nil
}
