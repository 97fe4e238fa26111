// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
)

// validate checks the fields the bundle server cannot start without.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenDuration < 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	return cfg.validateShared()
}

// validateClient checks the fields the CLI needs in its configured mode.
func (cfg *StructuredConfig) validateClient() error {
	switch cfg.Adapter.Mode {
	case ModeLocal:
		if cfg.Storage.Local.DSN == "" {
			return ErrInvalidStorageConfigs
		}
	case ModeRemote:
		if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
			return ErrInvalidAdapterConfigs
		}
		if _, err := url.ParseRequestURI(cfg.Adapter.HTTPAddress); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAdapterConfigs, err)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidAdapterConfigs, cfg.Adapter.Mode)
	}

	if cfg.Session.IdleTimeout <= 0 {
		return ErrInvalidSessionConfigs
	}

	return cfg.validateShared()
}

func (cfg *StructuredConfig) validateShared() error {
	if cfg.Crypto.RecoveryCodeCount <= 0 || cfg.Crypto.UnlockRate <= 0 || cfg.Crypto.UnlockBurst <= 0 {
		return ErrInvalidCryptoConfigs
	}

	r := cfg.Resilience
	if r.FailureThreshold <= 0 || r.Window <= 0 || r.ResetTimeout <= 0 || r.JanitorInterval <= 0 {
		return ErrInvalidResilienceConfigs
	}

	return nil
}
