// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/metrics"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/internal/validators"
	"github.com/MKhiriev/go-zk-vault/models"
)

type bundleService struct {
	storage   store.BundleStorage
	validator validators.Validator
	metrics   *metrics.Metrics

	logger *logger.Logger
}

func NewBundleService(storage store.BundleStorage, m *metrics.Metrics, logger *logger.Logger) BundleService {
	logger.Debug().Msg("creating bundle service")
	return &bundleService{
		storage:   storage,
		validator: validators.NewBundleValidator(),
		metrics:   m,
		logger:    logger,
	}
}

func (b *bundleService) Status(ctx context.Context, userID int64) (models.KeyStatus, error) {
	status, err := b.storage.GetKeyStatus(ctx, userID)
	b.metrics.BundleRequest("status", metrics.Outcome(err))
	return status, err
}

func (b *bundleService) Setup(ctx context.Context, userID int64, req models.SetupRequest) error {
	if err := b.validate(ctx, "setup", req); err != nil {
		return err
	}

	err := b.storage.CreateBundles(ctx, userID, req.KeyBundle, req.RecoveryBundle)
	b.metrics.BundleRequest("setup", metrics.Outcome(err))
	return err
}

func (b *bundleService) GetKeyBundle(ctx context.Context, userID int64) (models.EncryptionKeyBundle, error) {
	bundle, err := b.storage.GetKeyBundle(ctx, userID)
	b.metrics.BundleRequest("get_key_bundle", metrics.Outcome(err))
	return bundle, err
}

func (b *bundleService) SaveKeyBundle(ctx context.Context, userID int64, bundle models.EncryptionKeyBundle) error {
	if err := b.validate(ctx, "save_key_bundle", bundle); err != nil {
		return err
	}

	err := b.storage.SaveKeyBundle(ctx, userID, bundle)
	b.metrics.BundleRequest("save_key_bundle", metrics.Outcome(err))
	return err
}

func (b *bundleService) GetRecoveryBundle(ctx context.Context, userID int64) (models.RecoveryCodeBundle, error) {
	bundle, err := b.storage.GetRecoveryBundle(ctx, userID)
	b.metrics.BundleRequest("get_recovery_bundle", metrics.Outcome(err))
	return bundle, err
}

func (b *bundleService) SaveRecoveryBundle(ctx context.Context, userID int64, bundle models.RecoveryCodeBundle) error {
	if err := b.validate(ctx, "save_recovery_bundle", bundle); err != nil {
		return err
	}

	err := b.storage.SaveRecoveryBundle(ctx, userID, bundle)
	b.metrics.BundleRequest("save_recovery_bundle", metrics.Outcome(err))
	return err
}

func (b *bundleService) ConsumeRecoveryCode(ctx context.Context, userID int64, codeHash string) error {
	if err := b.validate(ctx, "consume_recovery_code", models.ConsumeRecoveryCodeRequest{CodeHash: codeHash}); err != nil {
		return err
	}

	err := b.storage.ConsumeRecoveryCode(ctx, userID, codeHash)
	b.metrics.BundleRequest("consume_recovery_code", metrics.Outcome(err))
	b.metrics.RecoveryCodeConsumed(consumeOutcome(err))
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "*bundleService.ConsumeRecoveryCode").
			Int64("user_id", userID).Str("code_hash", shortHash(codeHash)).Msg("recovery code not consumed")
	}
	return err
}

func (b *bundleService) validate(ctx context.Context, op string, obj any) error {
	if err := b.validator.Validate(ctx, obj); err != nil {
		b.metrics.BundleRequest(op, "invalid")
		logger.FromContext(ctx).Err(err).Str("func", "*bundleService.validate").Str("op", op).Msg("invalid bundle data")
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return nil
}
