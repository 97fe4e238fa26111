// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/go-resty/resty/v2"
)

var codeToError = map[string]error{
	models.ErrorCodeNotFound:            store.ErrBundleNotFound,
	models.ErrorCodeAlreadyExists:       store.ErrBundleAlreadyExists,
	models.ErrorCodeRecoveryCodeUsed:    store.ErrRecoveryCodeAlreadyUsed,
	models.ErrorCodeRecoveryCodeUnknown: store.ErrRecoveryCodeUnknown,
	models.ErrorCodeInvalidData:         ErrBadRequest,
	models.ErrorCodeUnauthorized:        ErrUnauthorized,
}

// mapHTTPError turns a non-2xx response into an error. The body code decides
// first; the status is the fallback for proxies that answer without one.
func mapHTTPError(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if target, ok := codeToError[body.Code]; ok {
			return fmt.Errorf("%w: %s", target, body.Message)
		}
	}

	msg := strings.TrimSpace(string(resp.Body()))
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", store.ErrBundleNotFound, msg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrServerError, status, msg)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrUnexpectedResponse, status, msg)
	}
}
