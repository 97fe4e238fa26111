// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

type Handler struct {
	services *service.Services
	auth     config.App
	gatherer prometheus.Gatherer

	logger *logger.Logger
}

// NewHandler wires the bundle API. gatherer backs GET /metrics and may be nil,
// in which case the route is not registered.
func NewHandler(services *service.Services, auth config.App, gatherer prometheus.Gatherer, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		auth:     auth,
		gatherer: gatherer,
		logger:   logger,
	}
}
