// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultRetryCount   = 2
	defaultRetryWait    = 100 * time.Millisecond
	defaultRetryMaxWait = time.Second
)

// HTTPClient is the resty client the remote bundle adapter talks through.
type HTTPClient struct {
	*resty.Client
}

// HTTPClientOption customizes NewHTTPClient.
type HTTPClientOption func(*resty.Client)

// WithBaseURL sets the server address every request is resolved against.
func WithBaseURL(baseURL string) HTTPClientOption {
	return func(c *resty.Client) {
		c.SetBaseURL(baseURL)
	}
}

// WithTimeout bounds a single request, retries included separately.
func WithTimeout(timeout time.Duration) HTTPClientOption {
	return func(c *resty.Client) {
		if timeout > 0 {
			c.SetTimeout(timeout)
		}
	}
}

// WithBearerToken attaches the token to every request.
func WithBearerToken(token string) HTTPClientOption {
	return func(c *resty.Client) {
		if token != "" {
			c.SetAuthToken(token)
		}
	}
}

// WithRetries overrides the retry count. Zero disables retries, which
// non-idempotent requests need.
func WithRetries(count int) HTTPClientOption {
	return func(c *resty.Client) {
		c.SetRetryCount(count)
	}
}

// NewHTTPClient returns an independent client that sends and accepts JSON
// and retries transport errors and 5xx responses a couple of times.
func NewHTTPClient(opts ...HTTPClientOption) *HTTPClient {
	c := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWait).
		SetRetryMaxWaitTime(defaultRetryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	for _, opt := range opts {
		opt(c)
	}
	return &HTTPClient{Client: c}
}
