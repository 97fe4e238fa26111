// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewHTTPClient_Independence(t *testing.T) {
	client1 := NewHTTPClient()
	client2 := NewHTTPClient()

	if client1.Client == nil || client2.Client == nil {
		t.Fatal("expected embedded *resty.Client to be non-nil")
	}
	if client1.Client == client2.Client {
		t.Fatal("expected independent *resty.Client instances")
	}
}

func TestNewHTTPClient_Options(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewHTTPClient(WithBaseURL(srv.URL), WithTimeout(time.Second), WithBearerToken("abc"))
	resp, err := client.R().Get("/ping")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.StatusCode() != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode())
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if client.GetClient().Timeout != time.Second {
		t.Errorf("expected 1s timeout, got %v", client.GetClient().Timeout)
	}
}

func TestNewHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(WithBaseURL(srv.URL)).R().Get("/")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("expected 200 after retry, got %d", resp.StatusCode())
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestNewHTTPClient_NoRetryOnClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(WithBaseURL(srv.URL)).R().Get("/")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.StatusCode() != http.StatusConflict || calls.Load() != 1 {
		t.Errorf("expected a single 409, got %d after %d calls", resp.StatusCode(), calls.Load())
	}
}

func TestNewHTTPClient_WithRetriesZero(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(WithBaseURL(srv.URL), WithRetries(0)).R().Post("/")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.StatusCode() != http.StatusBadGateway || calls.Load() != 1 {
		t.Errorf("expected a single 502, got %d after %d calls", resp.StatusCode(), calls.Load())
	}
}
