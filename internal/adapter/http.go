// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/utils"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/go-resty/resty/v2"
)

const (
	keyStatusPath      = "/api/keys/status"
	setupPath          = "/api/keys/setup"
	keyBundlePath      = "/api/keys/bundle"
	recoveryBundlePath = "/api/keys/recovery"
	consumePath        = "/api/keys/recovery/consume"
)

type httpBundleStorage struct {
	client *utils.HTTPClient
	// once serves setup and consume, which must not be replayed
	once   *utils.HTTPClient
	userID int64

	logger *logger.Logger
}

// NewHTTPBundleStorage builds the remote store for the user named by the
// configured token's subject.
func NewHTTPBundleStorage(cfg config.Adapter, logger *logger.Logger) (BundleStorage, error) {
	logger.Debug().Msg("creating http bundle storage...")

	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	userID, err := utils.ParseUserIDFromJWT(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	opts := []utils.HTTPClientOption{
		utils.WithBaseURL(baseURL),
		utils.WithTimeout(cfg.RequestTimeout),
		utils.WithBearerToken(strings.TrimSpace(cfg.Token)),
	}

	return &httpBundleStorage{
		client: utils.NewHTTPClient(opts...),
		once:   utils.NewHTTPClient(append(opts, utils.WithRetries(0))...),
		userID: userID,
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpBundleStorage) GetKeyBundle(ctx context.Context, userID int64) (models.EncryptionKeyBundle, error) {
	var bundle models.EncryptionKeyBundle
	err := h.do(ctx, userID, resty.MethodGet, keyBundlePath, nil, &bundle)
	return bundle, err
}

func (h *httpBundleStorage) SaveKeyBundle(ctx context.Context, userID int64, bundle models.EncryptionKeyBundle) error {
	return h.do(ctx, userID, resty.MethodPut, keyBundlePath, bundle, nil)
}

func (h *httpBundleStorage) GetRecoveryBundle(ctx context.Context, userID int64) (models.RecoveryCodeBundle, error) {
	var bundle models.RecoveryCodeBundle
	err := h.do(ctx, userID, resty.MethodGet, recoveryBundlePath, nil, &bundle)
	return bundle, err
}

func (h *httpBundleStorage) SaveRecoveryBundle(ctx context.Context, userID int64, bundle models.RecoveryCodeBundle) error {
	return h.do(ctx, userID, resty.MethodPut, recoveryBundlePath, bundle, nil)
}

func (h *httpBundleStorage) CreateBundles(ctx context.Context, userID int64, keyBundle models.EncryptionKeyBundle, recoveryBundle models.RecoveryCodeBundle) error {
	req := models.SetupRequest{KeyBundle: keyBundle, RecoveryBundle: recoveryBundle}
	return h.do(ctx, userID, resty.MethodPost, setupPath, req, nil)
}

func (h *httpBundleStorage) ConsumeRecoveryCode(ctx context.Context, userID int64, codeHash string) error {
	req := models.ConsumeRecoveryCodeRequest{CodeHash: codeHash}
	return h.do(ctx, userID, resty.MethodPost, consumePath, req, nil)
}

func (h *httpBundleStorage) GetKeyStatus(ctx context.Context, userID int64) (models.KeyStatus, error) {
	var status models.KeyStatus
	err := h.do(ctx, userID, resty.MethodGet, keyStatusPath, nil, &status)
	return status, err
}

func (h *httpBundleStorage) do(ctx context.Context, userID int64, method, path string, body, result any) error {
	if userID != h.userID {
		return fmt.Errorf("%w: %d != %d", ErrUserMismatch, userID, h.userID)
	}

	client := h.client
	if path == setupPath || path == consumePath {
		client = h.once
	}

	req := client.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*httpBundleStorage.do").
			Str("method", method).Str("path", path).Msg("bundle server request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if err := mapHTTPError(resp); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "*httpBundleStorage.do").
			Str("method", method).Str("path", path).Int("status", resp.StatusCode()).Msg("bundle server refused request")
		return err
	}
	return nil
}
