// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/internal/utils"
	"github.com/MKhiriev/go-zk-vault/models"
)

type errorStatus struct {
	status int
	code   string
}

// checked in order; the first match wins
var errorStatusMap = []struct {
	target error
	errorStatus
}{
	{service.ErrInvalidDataProvided, errorStatus{http.StatusBadRequest, models.ErrorCodeInvalidData}},
	{ErrInvalidJSON, errorStatus{http.StatusBadRequest, models.ErrorCodeInvalidData}},
	{ErrNoUserInContext, errorStatus{http.StatusUnauthorized, models.ErrorCodeUnauthorized}},
	{store.ErrBundleNotFound, errorStatus{http.StatusNotFound, models.ErrorCodeNotFound}},
	{store.ErrRecoveryCodeUnknown, errorStatus{http.StatusNotFound, models.ErrorCodeRecoveryCodeUnknown}},
	{store.ErrBundleAlreadyExists, errorStatus{http.StatusConflict, models.ErrorCodeAlreadyExists}},
	{store.ErrRecoveryCodeAlreadyUsed, errorStatus{http.StatusConflict, models.ErrorCodeRecoveryCodeUsed}},
}

func statusFromError(err error) errorStatus {
	for _, rule := range errorStatusMap {
		if errors.Is(err, rule.target) {
			return rule.errorStatus
		}
	}
	return errorStatus{http.StatusInternalServerError, models.ErrorCodeInternal}
}

// respondError logs err and writes the mapped status. Internal errors are
// reported with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	s := statusFromError(err)

	event := logger.FromRequest(r).Warn()
	msg := err.Error()
	if s.status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
		msg = http.StatusText(s.status)
	}
	event.Err(err).Str("func", fn).Int("status", s.status).Msg("request failed")

	utils.WriteError(w, s.status, s.code, msg)
}
