package service

import (
	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/metrics"
	"github.com/MKhiriev/go-zk-vault/internal/resilience"
	"github.com/MKhiriev/go-zk-vault/internal/store"
)

// Services is the server-side service set.
type Services struct {
	BundleService BundleService
}

func NewServices(storages *store.Storages, m *metrics.Metrics, logger *logger.Logger) *Services {
	return &Services{
		BundleService: NewBundleService(storages.BundleStorage, m, logger),
	}
}

// ClientServices is what the CLI needs for one user: the vault, its
// session and the breaker registry shared by every conversation.
type ClientServices struct {
	Vault    VaultService
	Session  *Session
	Breakers *resilience.Registry
}

func NewClientServices(userID int64, storage store.BundleStorage, cfg *config.StructuredConfig, m *metrics.Metrics, logger *logger.Logger) *ClientServices {
	session := NewSession(cfg.Session, cfg.Crypto)
	registry := resilience.NewRegistry(resilience.Config{
		FailureThreshold: cfg.Resilience.FailureThreshold,
		Window:           cfg.Resilience.Window,
		ResetTimeout:     cfg.Resilience.ResetTimeout,
	}, resilience.WithTransitionHook(func(key string, from, to resilience.State) {
		m.BreakerTransition(to.String())
	}))
	validator := resilience.NewValidator(registry, m, logger)

	return &ClientServices{
		Vault:    NewVaultService(userID, storage, crypto.NewKeyChainService(), session, validator, cfg.Crypto, m, logger),
		Session:  session,
		Breakers: registry,
	}
}
