// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/handler/http"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	httpServer *httpServer
	addr       string
	ready      chan net.Addr
	logger     *logger.Logger
}

func NewServer(handler *http.Handler, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handler == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handler.Init(), cfg),
		addr:       cfg.HTTPAddress,
		ready:      make(chan net.Addr, 1),
		logger:     logger,
	}, nil
}

func (s *server) RunServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.logger.Info().Str("address", l.Addr().String()).Msg("Launching HTTP server")
	select {
	case s.ready <- l.Addr():
	default:
	}

	served := make(chan error, 1)
	go func() {
		served <- s.httpServer.serve(l)
	}()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-served; err != nil {
		return err
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

func (s *server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.shutdown(ctx); err != nil {
		s.logger.Err(err).Str("func", "*server.Shutdown").Msg("HTTP server shutdown failed")
		return err
	}
	return nil
}
