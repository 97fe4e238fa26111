// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package resilience

import (
	"context"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/metrics"
)

// Validator applies a per-context circuit breaker around ValidateDecryption.
type Validator struct {
	registry *Registry
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewValidator builds a Validator over registry. m may be nil.
func NewValidator(registry *Registry, m *metrics.Metrics, log *logger.Logger) *Validator {
	log.Debug().Msg("creating decryption validator")
	return &Validator{
		registry: registry,
		metrics:  m,
		logger:   log,
	}
}

// Registry returns the breaker registry in use.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// Validate decrypts blob under the breaker for contextKey. When the
// circuit is open decrypt is not called and the result is circuit_open
// with a RATE_LIMITED error.
func (v *Validator) Validate(ctx context.Context, contextKey, blob string, decrypt DecryptFunc) DecryptionResult {
	log := logger.FromContext(ctx)

	if !crypto.IsEncrypted(blob) {
		v.metrics.DecryptResult(string(StatusPlaintext))
		return DecryptionResult{Status: StatusPlaintext, Value: blob}
	}

	breaker := v.registry.Get(contextKey)
	if !breaker.Allow() {
		log.Warn().Str("func", "*Validator.Validate").Str("context", contextKey).Msg("circuit open, decryption short-circuited")
		v.metrics.DecryptResult(string(StatusCircuitOpen))
		return DecryptionResult{
			Status: StatusCircuitOpen,
			Err:    crypto.NewEncryptionError(crypto.CodeRateLimited, "decryption temporarily disabled after repeated failures", nil),
		}
	}

	result := ValidateDecryption(blob, decrypt)
	switch {
	case result.Err == nil:
		breaker.Record(OutcomeSuccess)
	case countsAsFailure(result.Err):
		log.Warn().Str("func", "*Validator.Validate").Str("context", contextKey).
			Str("status", string(result.Status)).Str("code", string(result.Err.Code)).
			Msg("decryption failed")
		breaker.Record(OutcomeFailure)
	default:
		breaker.Record(OutcomeIgnored)
	}

	v.metrics.DecryptResult(string(result.Status))
	return result
}
