// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	handler "github.com/MKhiriev/go-zk-vault/internal/handler/http"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/metrics"
	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/internal/utils"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testApp = config.App{TokenSignKey: "adapter-test-key", TokenIssuer: "zk-vault"}

func testToken(t *testing.T, userID int64) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(testApp.TokenIssuer, userID, time.Hour, testApp.TokenSignKey)
	require.NoError(t, err)
	return token.SignedString
}

func newTestStorage(t *testing.T, url string, userID int64) BundleStorage {
	t.Helper()
	s, err := NewHTTPBundleStorage(config.Adapter{HTTPAddress: url, RequestTimeout: 5 * time.Second, Token: testToken(t, userID)}, logger.Nop())
	require.NoError(t, err)
	return s
}

// ─────────────────────────────────────────────
// construction
// ─────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"localhost:8080", "http://localhost:8080", false},
		{"https://vault.example.com/", "https://vault.example.com", false},
		{"  http://127.0.0.1:9000  ", "http://127.0.0.1:9000", false},
		{"", "", true},
		{"http://", "", true},
	}

	for _, tt := range tests {
		got, err := normalizeBaseURL(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewHTTPBundleStorage_Errors(t *testing.T) {
	_, err := NewHTTPBundleStorage(config.Adapter{Token: testToken(t, 1)}, logger.Nop())
	assert.ErrorIs(t, err, ErrEmptyAddress)

	_, err = NewHTTPBundleStorage(config.Adapter{HTTPAddress: "localhost:1", Token: "not-a-jwt"}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserMismatch(t *testing.T) {
	s := newTestStorage(t, "http://127.0.0.1:1", 5)

	_, err := s.GetKeyBundle(context.Background(), 6)
	assert.ErrorIs(t, err, ErrUserMismatch)
}

// ─────────────────────────────────────────────
// error mapping
// ─────────────────────────────────────────────

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"coded not found", http.StatusNotFound, `{"code":"not_found","message":"x"}`, store.ErrBundleNotFound},
		{"coded unknown code", http.StatusNotFound, `{"code":"recovery_code_unknown","message":"x"}`, store.ErrRecoveryCodeUnknown},
		{"coded already used", http.StatusConflict, `{"code":"recovery_code_used","message":"x"}`, store.ErrRecoveryCodeAlreadyUsed},
		{"coded already exists", http.StatusConflict, `{"code":"already_exists","message":"x"}`, store.ErrBundleAlreadyExists},
		{"coded invalid", http.StatusBadRequest, `{"code":"invalid_data","message":"x"}`, ErrBadRequest},
		{"bare 404", http.StatusNotFound, "", store.ErrBundleNotFound},
		{"bare 401", http.StatusUnauthorized, "nope", ErrUnauthorized},
		{"bare 403", http.StatusForbidden, "", ErrUnauthorized},
		{"bare 400", http.StatusBadRequest, "bad", ErrBadRequest},
		{"server error", http.StatusInternalServerError, `{"code":"internal","message":"x"}`, ErrServerError},
		{"teapot", http.StatusTeapot, "", ErrUnexpectedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestStorage(t, srv.URL, 1).GetRecoveryBundle(context.Background(), 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConsumeIsNotRetried(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newTestStorage(t, srv.URL, 1).ConsumeRecoveryCode(context.Background(), 1, "hash")
	assert.ErrorIs(t, err, ErrServerError)
	assert.Equal(t, 1, calls)
}

// ─────────────────────────────────────────────
// against a real bundle server
// ─────────────────────────────────────────────

func newBundleServer(t *testing.T) *httptest.Server {
	t.Helper()
	storages, err := store.NewClientStorages(context.Background(),
		config.Storage{Local: config.LocalDB{DSN: filepath.Join(t.TempDir(), "server.db")}}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	services := &service.Services{BundleService: service.NewBundleService(storages.BundleStorage, metrics.Nop(), logger.Nop())}
	srv := httptest.NewServer(handler.NewHandler(services, testApp, nil, logger.Nop()).Init())
	t.Cleanup(srv.Close)
	return srv
}

func newRemoteVault(t *testing.T, url string, userID int64) service.VaultService {
	t.Helper()
	cfg := &config.StructuredConfig{
		Crypto:     config.Crypto{RecoveryCodeCount: 2, OperationTimeout: 30 * time.Second},
		Session:    config.Session{IdleTimeout: time.Minute},
		Resilience: config.Resilience{FailureThreshold: 5, Window: time.Minute, ResetTimeout: time.Second},
	}
	return service.NewClientServices(userID, newTestStorage(t, url, userID), cfg, metrics.Nop(), logger.Nop()).Vault
}

func TestRemoteVault_EndToEnd(t *testing.T) {
	srv := newBundleServer(t)
	ctx := context.Background()

	first := newRemoteVault(t, srv.URL, 11)
	codes, err := first.Setup(ctx, "hunter2")
	require.NoError(t, err)
	require.Len(t, codes, 2)

	blob, err := first.EncryptMessage(ctx, "hello")
	require.NoError(t, err)

	// a second device of the same user
	second := newRemoteVault(t, srv.URL, 11)
	_, err = second.Setup(ctx, "other")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrAlreadySetUp)

	require.NoError(t, second.Unlock(ctx, "hunter2"))
	res := second.DecryptMessage(ctx, "c1", blob)
	assert.Equal(t, "hello", res.Value)

	// two devices race on the same recovery code
	third := newRemoteVault(t, srv.URL, 11)
	_, err = third.Refresh(ctx)
	require.NoError(t, err)
	second.Lock()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, v := range []service.VaultService{second, third} {
		wg.Go(func() {
			errs[i] = v.Recover(ctx, codes[0])
		})
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		code, ok := crypto.CodeOf(err)
		require.True(t, ok, err)
		assert.Equal(t, crypto.CodeWrongPassword, code)
		assert.ErrorIs(t, err, service.ErrRecoveryCodeAlreadyUsed)
	}
	assert.Equal(t, 1, succeeded, "a recovery code unlocks exactly once")

	remaining, err := first.RemainingRecoveryCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}

func TestRemoteStorage_Status(t *testing.T) {
	srv := newBundleServer(t)
	s := newTestStorage(t, srv.URL, 3)

	status, err := s.GetKeyStatus(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.KeyStatus{}, status)

	_, err = s.GetKeyBundle(context.Background(), 3)
	assert.ErrorIs(t, err, store.ErrBundleNotFound)
}
