// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
)

func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		start := time.Now()

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		// bodies are wrapped keys; only sizes are logged
		log.Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", lw.statusOrOK()).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
