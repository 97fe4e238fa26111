// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics holds the prometheus collectors shared by the client
// core and the bundle server. Collectors are registered on an injected
// Registerer so that tests and multiple instances never share state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "zkvault"

// Metrics groups every collector. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	decryptResults     *prometheus.CounterVec
	breakerTransitions *prometheus.CounterVec
	unlockAttempts     *prometheus.CounterVec
	bundleRequests     *prometheus.CounterVec
	recoveryConsumes   *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decryptResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decrypt_results_total",
			Help:      "Decryption attempts by result status.",
		}, []string{"status"}),
		breakerTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_transitions_total",
			Help:      "Circuit breaker state changes by target state.",
		}, []string{"state"}),
		unlockAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unlock_attempts_total",
			Help:      "Unlock and recovery attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		bundleRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bundle_requests_total",
			Help:      "Bundle API operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		recoveryConsumes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recovery_code_consumptions_total",
			Help:      "Atomic recovery code consumption by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.decryptResults,
			m.breakerTransitions,
			m.unlockAttempts,
			m.bundleRequests,
			m.recoveryConsumes,
		)
	}
	return m
}

// Nop returns unregistered collectors.
func Nop() *Metrics {
	return New(nil)
}

func (m *Metrics) DecryptResult(status string) {
	if m == nil {
		return
	}
	m.decryptResults.WithLabelValues(status).Inc()
}

func (m *Metrics) BreakerTransition(state string) {
	if m == nil {
		return
	}
	m.breakerTransitions.WithLabelValues(state).Inc()
}

func (m *Metrics) UnlockAttempt(method, outcome string) {
	if m == nil {
		return
	}
	m.unlockAttempts.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) BundleRequest(operation, outcome string) {
	if m == nil {
		return
	}
	m.bundleRequests.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecoveryCodeConsumed(outcome string) {
	if m == nil {
		return
	}
	m.recoveryConsumes.WithLabelValues(outcome).Inc()
}

// Outcome returns the label value for err.
func Outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
