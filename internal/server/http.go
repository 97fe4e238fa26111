// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/config"
)

const readHeaderTimeout = 5 * time.Second

type httpServer struct {
	server *http.Server
}

func newHTTPServer(handler http.Handler, cfg config.Server) *httpServer {
	if cfg.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, cfg.RequestTimeout, "request timed out")
	}
	return &httpServer{
		server: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// serve blocks on l until Shutdown. A clean shutdown returns nil.
func (h *httpServer) serve(l net.Listener) error {
	if err := h.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *httpServer) shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}
