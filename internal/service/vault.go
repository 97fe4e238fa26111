// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"strconv"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/lifecycle"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/metrics"
	"github.com/MKhiriev/go-zk-vault/internal/resilience"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/internal/utils"
)

type vaultService struct {
	userID  int64
	storage store.BundleStorage

	keychain  crypto.KeyChainService
	bundles   KeyBundleManager
	recovery  RecoveryCodeSystem
	session   *Session
	validator *resilience.Validator
	metrics   *metrics.Metrics

	opTimeout time.Duration
	now       func() time.Time

	logger *logger.Logger
}

// NewVaultService returns the client orchestration for userID. storage may
// be the local SQLite store or the remote adapter.
func NewVaultService(
	userID int64,
	storage store.BundleStorage,
	keychain crypto.KeyChainService,
	session *Session,
	validator *resilience.Validator,
	cfg config.Crypto,
	m *metrics.Metrics,
	logger *logger.Logger,
) VaultService {
	logger.Debug().Int64("user_id", userID).Msg("creating vault service")
	return &vaultService{
		userID:    userID,
		storage:   storage,
		keychain:  keychain,
		bundles:   NewKeyBundleManager(keychain, logger),
		recovery:  NewRecoveryCodeSystem(keychain, utils.NewUUIDGenerator(), cfg.RecoveryCodeCount, logger),
		session:   session,
		validator: validator,
		metrics:   m,
		opTimeout: cfg.OperationTimeout,
		now:       time.Now,
		logger:    logger,
	}
}

func (v *vaultService) State() lifecycle.State {
	return v.session.State()
}

func (v *vaultService) Lock() {
	v.session.Lock()
}

func (v *vaultService) Refresh(ctx context.Context) (lifecycle.State, error) {
	machine := v.session.Machine()

	switch machine.State().Status {
	case lifecycle.StatusUnlocked, lifecycle.StatusUnlocking:
		return machine.State(), nil
	case lifecycle.StatusError:
		machine.Dispatch(lifecycle.ClearError())
	}
	machine.Dispatch(lifecycle.StartCheck())

	status, err := v.storage.GetKeyStatus(ctx, v.userID)
	if err != nil {
		encErr := crypto.ClassifyError(err, crypto.CodeUnknown)
		logger.FromContext(ctx).Err(err).Str("func", "*vaultService.Refresh").Msg("error reading key status")
		return machine.Dispatch(lifecycle.Failure(encErr)), encErr
	}

	if status.HasKeyBundle {
		return machine.Dispatch(lifecycle.KeysFound()), nil
	}
	return machine.Dispatch(lifecycle.SetupRequired()), nil
}

// ensureChecked resolves uninitialized and checking states against storage,
// as well as an error left by a failed check.
func (v *vaultService) ensureChecked(ctx context.Context) (lifecycle.State, error) {
	st := v.session.State()
	switch st.Status {
	case lifecycle.StatusUninitialized, lifecycle.StatusChecking:
		return v.Refresh(ctx)
	case lifecycle.StatusError:
		if _, ok := st.Previous(); !ok {
			return v.Refresh(ctx)
		}
	}
	return st, nil
}

func (v *vaultService) Setup(ctx context.Context, password string) ([]string, error) {
	log := logger.FromContext(ctx)

	st, err := v.ensureChecked(ctx)
	if err != nil {
		return nil, err
	}
	if st.Status != lifecycle.StatusNoEncryption {
		return nil, ErrAlreadySetUp
	}

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	keyBundle, dek, err := v.bundles.CreateKeyBundle(ctx, password)
	if err != nil {
		v.metrics.UnlockAttempt("setup", metrics.Outcome(err))
		return nil, err
	}
	defer dek.Destroy()

	codes, recoveryBundle, err := v.recovery.CreateRecoveryCodeBundle(ctx, dek)
	if err != nil {
		v.metrics.UnlockAttempt("setup", metrics.Outcome(err))
		return nil, err
	}

	if err = v.storage.CreateBundles(ctx, v.userID, keyBundle, recoveryBundle); err != nil {
		v.metrics.UnlockAttempt("setup", metrics.Outcome(err))
		log.Err(err).Str("func", "*vaultService.Setup").Msg("error saving bundles")
		if errors.Is(err, store.ErrBundleAlreadyExists) {
			return nil, ErrAlreadySetUp
		}
		return nil, crypto.ClassifyError(err, crypto.CodeUnknown)
	}

	sealed, err := dek.Seal()
	if err != nil {
		return nil, crypto.ClassifyError(err, crypto.CodeUnknown)
	}
	v.session.setKey(sealed)
	v.session.Machine().Dispatch(lifecycle.SetupComplete(len(codes), v.now()))
	v.metrics.UnlockAttempt("setup", metrics.Outcome(nil))

	log.Info().Str("func", "*vaultService.Setup").Int64("user_id", v.userID).Msg("encryption set up")
	return codes, nil
}

func (v *vaultService) Unlock(ctx context.Context, password string) error {
	st, err := v.ensureChecked(ctx)
	if err != nil {
		return err
	}
	switch st.Status {
	case lifecycle.StatusUnlocked:
		return nil
	case lifecycle.StatusNoEncryption:
		return notSetupError(nil)
	}

	if err = v.session.allowAttempt(); err != nil {
		v.metrics.UnlockAttempt("password", "rate_limited")
		return err
	}

	_, err, _ = v.session.unlocks.Do(v.flightKey("password", password), func() (any, error) {
		return nil, v.unlock(ctx, password)
	})
	v.metrics.UnlockAttempt("password", metrics.Outcome(err))
	return err
}

func (v *vaultService) unlock(ctx context.Context, password string) error {
	machine := v.session.Machine()
	done, err := v.beginUnlock()
	if err != nil || done {
		return err
	}

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	bundle, err := v.storage.GetKeyBundle(ctx, v.userID)
	if err != nil {
		return v.unlockFailed(ctx, v.storageError(err))
	}

	key, err := v.bundles.UnlockDataKey(ctx, password, bundle)
	if err != nil {
		return v.unlockFailed(ctx, crypto.ClassifyError(err, crypto.CodeWrongPassword))
	}

	remaining := v.remainingFromStorage(ctx)
	v.session.setKey(key)
	machine.Dispatch(lifecycle.UnlockSuccess(remaining, v.now()))

	logger.FromContext(ctx).Info().Str("func", "*vaultService.unlock").Int64("user_id", v.userID).Msg("data key unlocked")
	return nil
}

// Recover unlocks with a one-time code. The code is consumed on the
// storage side before the key becomes usable, so two clients redeeming
// the same code cannot both succeed.
func (v *vaultService) Recover(ctx context.Context, code string) error {
	st, err := v.ensureChecked(ctx)
	if err != nil {
		return err
	}
	if st.Status == lifecycle.StatusNoEncryption {
		return notSetupError(nil)
	}
	if err = v.session.allowAttempt(); err != nil {
		v.metrics.UnlockAttempt("recovery_code", "rate_limited")
		return err
	}

	_, err, _ = v.session.unlocks.Do(v.flightKey("recovery", NormalizeRecoveryCode(code)), func() (any, error) {
		return nil, v.recover(ctx, code)
	})
	v.metrics.UnlockAttempt("recovery_code", metrics.Outcome(err))
	return err
}

func (v *vaultService) recover(ctx context.Context, code string) error {
	log := logger.FromContext(ctx)
	machine := v.session.Machine()

	done, err := v.startRecovery()
	if err != nil || done {
		return err
	}

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	bundle, err := v.storage.GetRecoveryBundle(ctx, v.userID)
	if err != nil {
		return v.unlockFailed(ctx, v.storageError(err))
	}

	result, err := v.recovery.RecoverWithCode(ctx, code, bundle)
	if err != nil {
		return v.unlockFailed(ctx, crypto.ClassifyError(err, crypto.CodeUnknown))
	}
	if result == nil {
		return v.unlockFailed(ctx, invalidRecoveryCodeError())
	}

	if err = v.consumeRecoveryCode(ctx, result.CodeHash); err != nil {
		result.DataKey.Destroy()
		return v.unlockFailed(ctx, crypto.ClassifyError(err, crypto.CodeUnknown))
	}

	remaining := GetRemainingRecoveryCodeCount(MarkRecoveryCodeUsed(bundle, result.CodeHash))
	v.session.setKey(result.DataKey)
	machine.Dispatch(lifecycle.UnlockSuccess(remaining, v.now()))

	log.Info().Str("func", "*vaultService.recover").Int64("user_id", v.userID).Int("remaining", remaining).
		Msg("data key recovered with a recovery code")
	return nil
}

// ResetPassword redeems a recovery code and wraps the same data key under
// newPassword. Content encrypted before the reset stays readable.
func (v *vaultService) ResetPassword(ctx context.Context, code, newPassword string) error {
	if newPassword == "" {
		return emptyPasswordError()
	}
	st, err := v.ensureChecked(ctx)
	if err != nil {
		return err
	}
	if st.Status == lifecycle.StatusNoEncryption {
		return notSetupError(nil)
	}
	if err = v.session.allowAttempt(); err != nil {
		v.metrics.UnlockAttempt("password_reset", "rate_limited")
		return err
	}

	_, err, _ = v.session.unlocks.Do(v.flightKey("reset", NormalizeRecoveryCode(code)), func() (any, error) {
		return nil, v.resetPassword(ctx, code, newPassword)
	})
	v.metrics.UnlockAttempt("password_reset", metrics.Outcome(err))
	return err
}

func (v *vaultService) resetPassword(ctx context.Context, code, newPassword string) error {
	done, err := v.startRecovery()
	if err != nil {
		return err
	}
	if done {
		// someone else unlocked, the password is still the old one
		return crypto.NewEncryptionError(crypto.CodeUnknown, "", ErrUnlockInProgress)
	}

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	bundle, err := v.storage.GetRecoveryBundle(ctx, v.userID)
	if err != nil {
		return v.unlockFailed(ctx, v.storageError(err))
	}

	dek, codeHash, err := v.recovery.RecoverExportableWithCode(ctx, code, bundle)
	if err != nil {
		return v.unlockFailed(ctx, crypto.ClassifyError(err, crypto.CodeUnknown))
	}
	if dek == nil {
		return v.unlockFailed(ctx, invalidRecoveryCodeError())
	}
	defer dek.Destroy()

	keyBundle, err := v.bundles.WrapDataKey(ctx, newPassword, dek)
	if err != nil {
		return v.unlockFailed(ctx, crypto.ClassifyError(err, crypto.CodeWrapFailed))
	}

	// the code is spent before anything is overwritten, so a device that
	// loses the race cannot replace the password
	if err = v.consumeRecoveryCode(ctx, codeHash); err != nil {
		return v.unlockFailed(ctx, crypto.ClassifyError(err, crypto.CodeUnknown))
	}

	if err = v.storage.SaveKeyBundle(ctx, v.userID, keyBundle); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*vaultService.resetPassword").Msg("error saving key bundle after recovery")
		return v.unlockFailed(ctx, v.storageError(err))
	}

	sealed, err := dek.Seal()
	if err != nil {
		return v.unlockFailed(ctx, crypto.ClassifyError(err, crypto.CodeUnknown))
	}

	remaining := GetRemainingRecoveryCodeCount(MarkRecoveryCodeUsed(bundle, codeHash))
	v.session.setKey(sealed)
	v.session.Machine().Dispatch(lifecycle.UnlockSuccess(remaining, v.now()))

	logger.FromContext(ctx).Info().Str("func", "*vaultService.resetPassword").Int64("user_id", v.userID).
		Int("remaining", remaining).Msg("password reset with a recovery code")
	return nil
}

// beginUnlock enters unlocking. done reports that a concurrent attempt has
// already unlocked the session and there is nothing left to do.
func (v *vaultService) beginUnlock() (done bool, err error) {
	switch v.session.Machine().Dispatch(lifecycle.StartUnlock()).Status {
	case lifecycle.StatusUnlocking:
		return false, nil
	case lifecycle.StatusUnlocked:
		return true, nil
	}
	return false, crypto.NewEncryptionError(crypto.CodeUnknown, "", ErrUnlockInProgress)
}

// startRecovery locks an unlocked session and enters unlocking.
func (v *vaultService) startRecovery() (done bool, err error) {
	if v.session.State().IsUnlocked() {
		v.session.Lock()
	}
	return v.beginUnlock()
}

// consumeRecoveryCode spends codeHash in storage. Only the caller that gets
// nil may use the key.
func (v *vaultService) consumeRecoveryCode(ctx context.Context, codeHash string) error {
	err := v.storage.ConsumeRecoveryCode(ctx, v.userID, codeHash)
	v.metrics.RecoveryCodeConsumed(consumeOutcome(err))
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn().Err(err).Str("func", "*vaultService.consumeRecoveryCode").
		Str("code_hash", shortHash(codeHash)).Msg("recovery code was not consumed")

	switch {
	case errors.Is(err, store.ErrRecoveryCodeAlreadyUsed):
		return recoveryCodeUsedError()
	case errors.Is(err, store.ErrRecoveryCodeUnknown):
		return invalidRecoveryCodeError()
	}
	return v.storageError(err)
}

func (v *vaultService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if err := v.session.allowAttempt(); err != nil {
		return err
	}

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	bundle, err := v.storage.GetKeyBundle(ctx, v.userID)
	if err != nil {
		return v.storageError(err)
	}

	rewrapped, err := v.bundles.RewrapKeyBundle(ctx, oldPassword, newPassword, bundle)
	if err != nil {
		return err
	}

	if err = v.storage.SaveKeyBundle(ctx, v.userID, rewrapped); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*vaultService.ChangePassword").Msg("error saving re-wrapped key bundle")
		return v.storageError(err)
	}
	return nil
}

func (v *vaultService) RegenerateRecoveryCodes(ctx context.Context, password string) ([]string, error) {
	if err := v.session.allowAttempt(); err != nil {
		return nil, err
	}

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	keyBundle, err := v.storage.GetKeyBundle(ctx, v.userID)
	if err != nil {
		return nil, v.storageError(err)
	}

	dek, err := v.bundles.UnlockExportableDataKey(ctx, password, keyBundle)
	if err != nil {
		return nil, err
	}
	defer dek.Destroy()

	codes, bundle, err := v.recovery.CreateRecoveryCodeBundle(ctx, dek)
	if err != nil {
		return nil, err
	}

	if err = v.storage.SaveRecoveryBundle(ctx, v.userID, bundle); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*vaultService.RegenerateRecoveryCodes").Msg("error saving recovery bundle")
		return nil, v.storageError(err)
	}

	v.session.Machine().Dispatch(lifecycle.RecoveryCodesUpdated(len(codes)))
	return codes, nil
}

func (v *vaultService) RemainingRecoveryCodes(ctx context.Context) (int, error) {
	status, err := v.storage.GetKeyStatus(ctx, v.userID)
	if err != nil {
		return 0, v.storageError(err)
	}

	v.session.Machine().Dispatch(lifecycle.RecoveryCodesUpdated(status.RemainingRecoveryCodes))
	return status.RemainingRecoveryCodes, nil
}

func (v *vaultService) EncryptMessage(ctx context.Context, plaintext string) (string, error) {
	key, err := v.session.Key()
	if err != nil {
		return "", err
	}

	blob, err := v.keychain.Encrypt(plaintext, key)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*vaultService.EncryptMessage").Msg("error encrypting message")
		return "", crypto.ClassifyError(err, crypto.CodeUnknown)
	}
	return blob, nil
}

func (v *vaultService) DecryptMessage(ctx context.Context, conversationID, blob string) resilience.DecryptionResult {
	if conversationID == "" {
		conversationID = resilience.DefaultContext
	}

	return v.validator.Validate(ctx, conversationID, blob, func(b string) (string, error) {
		key, err := v.session.Key()
		if err != nil {
			return "", err
		}
		return v.keychain.Decrypt(b, key)
	})
}

func (v *vaultService) unlockFailed(ctx context.Context, encErr *crypto.EncryptionError) error {
	v.session.Machine().Dispatch(lifecycle.UnlockFailure(encErr))
	logger.FromContext(ctx).Warn().Str("func", "*vaultService.unlockFailed").Int64("user_id", v.userID).
		Str("code", string(encErr.Code)).Msg("unlock failed")
	return encErr
}

// storageError maps a missing bundle to NOT_SETUP and anything else to a
// retryable UNKNOWN.
func (v *vaultService) storageError(err error) *crypto.EncryptionError {
	if errors.Is(err, store.ErrBundleNotFound) {
		return notSetupError(err)
	}
	return crypto.ClassifyError(err, crypto.CodeUnknown)
}

func (v *vaultService) remainingFromStorage(ctx context.Context) int {
	bundle, err := v.storage.GetRecoveryBundle(ctx, v.userID)
	if err != nil {
		if !errors.Is(err, store.ErrBundleNotFound) {
			logger.FromContext(ctx).Warn().Err(err).Str("func", "*vaultService.remainingFromStorage").
				Msg("unable to read recovery bundle")
		}
		return 0
	}
	return GetRemainingRecoveryCodeCount(bundle)
}

func (v *vaultService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, v.opTimeout)
}

// flightKey collapses concurrent identical attempts. The secret only enters
// the key as a digest.
func (v *vaultService) flightKey(method, secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return strconv.FormatInt(v.userID, 10) + ":" + method + ":" + crypto.BufferToBase64(sum[:])
}

func consumeOutcome(err error) string {
	switch {
	case err == nil:
		return "consumed"
	case errors.Is(err, store.ErrRecoveryCodeAlreadyUsed):
		return "already_used"
	case errors.Is(err, store.ErrRecoveryCodeUnknown):
		return "unknown"
	}
	return "error"
}
