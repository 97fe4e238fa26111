// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-zk-vault/internal/utils"
	"github.com/MKhiriev/go-zk-vault/models"
)

const maxBodyBytes = 1 << 20

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, "*Handler.status", ErrNoUserInContext)
		return
	}

	status, err := h.services.BundleService.Status(r.Context(), userID)
	if err != nil {
		respondError(w, r, "*Handler.status", err)
		return
	}

	_, _ = utils.WriteJSON(w, status, http.StatusOK)
}

func (h *Handler) setup(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, "*Handler.setup", ErrNoUserInContext)
		return
	}

	var req models.SetupRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, "*Handler.setup", err)
		return
	}

	if err := h.services.BundleService.Setup(r.Context(), userID, req); err != nil {
		respondError(w, r, "*Handler.setup", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) getKeyBundle(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, "*Handler.getKeyBundle", ErrNoUserInContext)
		return
	}

	bundle, err := h.services.BundleService.GetKeyBundle(r.Context(), userID)
	if err != nil {
		respondError(w, r, "*Handler.getKeyBundle", err)
		return
	}

	_, _ = utils.WriteJSON(w, bundle, http.StatusOK)
}

func (h *Handler) saveKeyBundle(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, "*Handler.saveKeyBundle", ErrNoUserInContext)
		return
	}

	var bundle models.EncryptionKeyBundle
	if err := decodeBody(w, r, &bundle); err != nil {
		respondError(w, r, "*Handler.saveKeyBundle", err)
		return
	}

	if err := h.services.BundleService.SaveKeyBundle(r.Context(), userID, bundle); err != nil {
		respondError(w, r, "*Handler.saveKeyBundle", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getRecoveryBundle(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, "*Handler.getRecoveryBundle", ErrNoUserInContext)
		return
	}

	bundle, err := h.services.BundleService.GetRecoveryBundle(r.Context(), userID)
	if err != nil {
		respondError(w, r, "*Handler.getRecoveryBundle", err)
		return
	}

	_, _ = utils.WriteJSON(w, bundle, http.StatusOK)
}

func (h *Handler) saveRecoveryBundle(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, "*Handler.saveRecoveryBundle", ErrNoUserInContext)
		return
	}

	var bundle models.RecoveryCodeBundle
	if err := decodeBody(w, r, &bundle); err != nil {
		respondError(w, r, "*Handler.saveRecoveryBundle", err)
		return
	}

	if err := h.services.BundleService.SaveRecoveryBundle(r.Context(), userID, bundle); err != nil {
		respondError(w, r, "*Handler.saveRecoveryBundle", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// consumeRecoveryCode is the compare-and-set point for recovery codes:
// of two concurrent requests with the same hash exactly one gets 204.
func (h *Handler) consumeRecoveryCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, "*Handler.consumeRecoveryCode", ErrNoUserInContext)
		return
	}

	var req models.ConsumeRecoveryCodeRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, "*Handler.consumeRecoveryCode", err)
		return
	}

	if err := h.services.BundleService.ConsumeRecoveryCode(r.Context(), userID, req.CodeHash); err != nil {
		respondError(w, r, "*Handler.consumeRecoveryCode", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}
