// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.DecryptResult("success")
	m.DecryptResult("success")
	m.DecryptResult("key_mismatch")
	m.BreakerTransition("open")
	m.UnlockAttempt("password", "failure")
	m.BundleRequest("get_key_bundle", "success")
	m.RecoveryCodeConsumed("conflict")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.decryptResults.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decryptResults.WithLabelValues("key_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.breakerTransitions.WithLabelValues("open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unlockAttempts.WithLabelValues("password", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bundleRequests.WithLabelValues("get_key_bundle", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recoveryConsumes.WithLabelValues("conflict")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.DecryptResult("x")
		m.BreakerTransition("x")
		m.UnlockAttempt("x", "y")
		m.BundleRequest("x", "y")
		m.RecoveryCodeConsumed("x")
	})
}

func TestMetrics_IsolatedRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(nil))
	assert.Equal(t, "failure", Outcome(errors.New("x")))
}
