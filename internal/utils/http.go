// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-zk-vault/models"
)

// WriteJSON marshals data and writes it with statusCode.
// When marshaling fails the client gets a plain 500 instead.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// WriteError writes the wire error body the remote adapter decodes.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	_, _ = WriteJSON(w, models.ErrorResponse{Code: code, Message: message}, statusCode)
}
