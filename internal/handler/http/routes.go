// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	if h.gatherer != nil {
		router.Method("GET", "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/keys", func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/status", h.status)
		r.Post("/setup", h.setup)

		r.Get("/bundle", h.getKeyBundle)
		r.Put("/bundle", h.saveKeyBundle)

		r.Get("/recovery", h.getRecoveryBundle)
		r.Put("/recovery", h.saveRecoveryBundle)
		r.Post("/recovery/consume", h.consumeRecoveryCode)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
