// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the zkvault command line.
//
// Every command builds its own [service.ClientServices] for one user, over
// either the local SQLite store or the bundle server. Key material never
// outlives the process: one-shot commands unlock, act and exit, while
// `zkvault session` keeps the key until it is locked by hand or by the
// auto-lock worker.
package client
