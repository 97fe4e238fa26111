// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSealedTestKey(t *testing.T) *crypto.SealedKey {
	t.Helper()
	dek, err := crypto.GenerateDataKey()
	require.NoError(t, err)
	sealed, err := dek.Seal()
	require.NoError(t, err)
	return sealed
}

func TestSession_KeyLockedWhenEmpty(t *testing.T) {
	s := NewSession(config.Session{IdleTimeout: time.Minute}, config.Crypto{})

	key, err := s.Key()
	assert.Nil(t, key)
	requireCode(t, err, crypto.CodeLocked)
	assert.False(t, s.Unlocked())
	assert.Equal(t, lifecycle.StatusUninitialized, s.State().Status)
}

func TestSession_SetKeyReplacesAndLockDestroys(t *testing.T) {
	s := NewSession(config.Session{}, config.Crypto{})

	first := newSealedTestKey(t)
	s.setKey(first)
	second := newSealedTestKey(t)
	s.setKey(second)

	assert.True(t, first.Destroyed(), "replaced key is destroyed")
	got, err := s.Key()
	require.NoError(t, err)
	assert.Same(t, second, got)

	s.machine.Dispatch(lifecycle.StartCheck())
	s.machine.Dispatch(lifecycle.SetupRequired())
	s.machine.Dispatch(lifecycle.SetupComplete(12, time.Now()))
	require.True(t, s.State().IsUnlocked())

	s.Lock()
	assert.True(t, second.Destroyed())
	assert.False(t, s.Unlocked())
	assert.Equal(t, lifecycle.StatusLocked, s.State().Status)

	_, err = s.Key()
	requireCode(t, err, crypto.CodeLocked)
}

func TestSession_IdleFor(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSession(config.Session{IdleTimeout: 5 * time.Minute}, config.Crypto{})
	s.now = func() time.Time { return now }

	assert.Zero(t, s.IdleFor(), "locked sessions are never idle")

	s.setKey(newSealedTestKey(t))
	now = now.Add(3 * time.Minute)
	assert.Equal(t, 3*time.Minute, s.IdleFor())

	_, err := s.Key()
	require.NoError(t, err)
	assert.Zero(t, s.IdleFor(), "using the key counts as activity")

	now = now.Add(time.Minute)
	s.Touch()
	assert.Zero(t, s.IdleFor())
	assert.Equal(t, 5*time.Minute, s.IdleTimeout())
}

func TestSession_AttemptLimiter(t *testing.T) {
	s := NewSession(config.Session{}, config.Crypto{UnlockRate: 0.001, UnlockBurst: 2})

	require.NoError(t, s.allowAttempt())
	require.NoError(t, s.allowAttempt())
	requireCode(t, s.allowAttempt(), crypto.CodeRateLimited)
}

func TestSession_NoRateConfiguredIsUnlimited(t *testing.T) {
	s := NewSession(config.Session{}, config.Crypto{})
	for range 100 {
		require.NoError(t, s.allowAttempt())
	}
}
