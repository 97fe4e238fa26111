// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func failN(b *Breaker, n int) {
	for range n {
		b.Execute(func() Outcome { return OutcomeFailure })
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	clock := newFakeClock()
	b := NewBreaker(DefaultConfig(), clock.Now)

	failN(b, 4)
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 4, b.Failures())

	failN(b, 1)
	assert.Equal(t, StateOpen, b.State())

	var calls int
	executed := b.Execute(func() Outcome {
		calls++
		return OutcomeSuccess
	})
	assert.False(t, executed)
	assert.Zero(t, calls, "sixth attempt must not reach the operation")
}

func TestBreaker_SlidingWindow(t *testing.T) {
	clock := newFakeClock()
	b := NewBreaker(DefaultConfig(), clock.Now)

	failN(b, 4)
	clock.Advance(61 * time.Second)
	failN(b, 1)

	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 1, b.Failures())
}

func TestBreaker_HalfOpenSingleProbe(t *testing.T) {
	for _, probe := range []Outcome{OutcomeSuccess, OutcomeFailure} {
		clock := newFakeClock()
		b := NewBreaker(DefaultConfig(), clock.Now)
		failN(b, 5)
		require.Equal(t, StateOpen, b.State())

		clock.Advance(29 * time.Second)
		assert.False(t, b.Allow())

		clock.Advance(time.Second)
		require.True(t, b.Allow(), "first call after reset timeout is the probe")
		assert.Equal(t, StateHalfOpen, b.State())
		assert.False(t, b.Allow(), "only one probe while half-open")

		b.Record(probe)
		if probe == OutcomeSuccess {
			assert.Equal(t, StateClosed, b.State())
			assert.True(t, b.Allow())
		} else {
			assert.Equal(t, StateOpen, b.State())
			assert.False(t, b.Allow())
		}
	}
}

func TestBreaker_IgnoredOutcomes(t *testing.T) {
	clock := newFakeClock()
	b := NewBreaker(DefaultConfig(), clock.Now)

	for range 20 {
		b.Execute(func() Outcome { return OutcomeIgnored })
	}
	assert.Equal(t, StateClosed, b.State())
	assert.Zero(t, b.Failures())
}

func TestBreaker_IgnoredProbeFreesSlot(t *testing.T) {
	clock := newFakeClock()
	b := NewBreaker(DefaultConfig(), clock.Now)
	failN(b, 5)
	clock.Advance(30 * time.Second)

	require.True(t, b.Allow())
	b.Record(OutcomeIgnored)
	assert.Equal(t, StateHalfOpen, b.State())
	assert.True(t, b.Allow())
}

func TestBreaker_SuccessInClosedKeepsWindow(t *testing.T) {
	clock := newFakeClock()
	b := NewBreaker(DefaultConfig(), clock.Now)

	failN(b, 3)
	b.Execute(func() Outcome { return OutcomeSuccess })
	assert.Equal(t, 3, b.Failures())
}

func TestBreaker_Reset(t *testing.T) {
	b := NewBreaker(DefaultConfig(), nil)
	failN(b, 5)
	require.Equal(t, StateOpen, b.State())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.Zero(t, b.Failures())
}

func TestBreaker_ConfigDefaults(t *testing.T) {
	b := NewBreaker(Config{}, nil)
	assert.Equal(t, DefaultConfig(), b.cfg)
}

func TestBreaker_ConcurrentProbe(t *testing.T) {
	clock := newFakeClock()
	b := NewBreaker(Config{FailureThreshold: 1, Window: time.Minute, ResetTimeout: time.Second}, clock.Now)
	failN(b, 1)
	clock.Advance(time.Second)

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.Allow() {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), admitted.Load())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half_open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
