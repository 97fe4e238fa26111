// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Defaults applied to zero-valued fields after merging.
const (
	DefaultRecoveryCodeCount = 12
	DefaultUnlockRate        = 1.0
	DefaultUnlockBurst       = 5
	DefaultOperationTimeout  = 30 * time.Second

	DefaultFailureThreshold = 5
	DefaultWindow           = 60 * time.Second
	DefaultResetTimeout     = 30 * time.Second
	DefaultJanitorInterval  = time.Minute
	DefaultIdleTTL          = 10 * time.Minute

	DefaultIdleTimeout = 15 * time.Minute

	DefaultHTTPAddress    = "localhost:8080"
	DefaultRequestTimeout = 30 * time.Second
	DefaultTokenIssuer    = "zkvault"
	DefaultTokenDuration  = 24 * time.Hour

	DefaultLocalDSN = "zkvault.db"
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Crypto.RecoveryCodeCount == 0 {
		cfg.Crypto.RecoveryCodeCount = DefaultRecoveryCodeCount
	}
	if cfg.Crypto.UnlockRate == 0 {
		cfg.Crypto.UnlockRate = DefaultUnlockRate
	}
	if cfg.Crypto.UnlockBurst == 0 {
		cfg.Crypto.UnlockBurst = DefaultUnlockBurst
	}
	if cfg.Crypto.OperationTimeout == 0 {
		cfg.Crypto.OperationTimeout = DefaultOperationTimeout
	}

	if cfg.Resilience.FailureThreshold == 0 {
		cfg.Resilience.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.Resilience.Window == 0 {
		cfg.Resilience.Window = DefaultWindow
	}
	if cfg.Resilience.ResetTimeout == 0 {
		cfg.Resilience.ResetTimeout = DefaultResetTimeout
	}
	if cfg.Resilience.JanitorInterval == 0 {
		cfg.Resilience.JanitorInterval = DefaultJanitorInterval
	}
	if cfg.Resilience.IdleTTL == 0 {
		cfg.Resilience.IdleTTL = DefaultIdleTTL
	}

	if cfg.Session.IdleTimeout == 0 {
		cfg.Session.IdleTimeout = DefaultIdleTimeout
	}

	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = DefaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = DefaultTokenDuration
	}

	if cfg.Adapter.Mode == "" {
		cfg.Adapter.Mode = ModeLocal
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Storage.Local.DSN == "" {
		cfg.Storage.Local.DSN = DefaultLocalDSN
	}
}
