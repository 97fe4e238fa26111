package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid CLI adapter settings
	// (for example, remote mode without a server address).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates a missing DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid token settings.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidCryptoConfigs indicates a non-positive code count or unlock limit.
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidResilienceConfigs indicates non-positive breaker settings.
	ErrInvalidResilienceConfigs = errors.New("invalid resilience configuration")
	// ErrInvalidSessionConfigs indicates a non-positive idle timeout.
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
)
