// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod replaces chi's 405 with a 404 so that probing a path with a
// wrong method reveals nothing about which routes exist. Nested routers are
// walked, so "/api/keys/status" matches the pattern registered under
// router.Route("/api/keys", ...).
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		found := false
		_ = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			if method == r.Method && route == r.URL.Path {
				found = true
			}
			return nil
		})

		if !found {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		router.ServeHTTP(w, r)
	}
}
