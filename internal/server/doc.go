// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the bundle API over HTTP with signal-driven graceful
// shutdown.
package server
