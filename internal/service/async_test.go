// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBlocking_Result(t *testing.T) {
	v, err := runBlocking(context.Background(), func() (int, error) { return 42, nil }, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	boom := errors.New("boom")
	_, err = runBlocking(context.Background(), func() (int, error) { return 0, boom }, nil)
	assert.ErrorIs(t, err, boom)
}

func TestRunBlocking_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := runBlocking(ctx, func() (int, error) { called = true; return 1, nil }, nil)

	requireCode(t, err, crypto.CodeUnknown)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestRunBlocking_DeadlineDiscardsLateResult(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	discarded := make(chan int, 1)

	_, err := runBlocking(ctx, func() (int, error) {
		<-release
		return 7, nil
	}, func(v int) { discarded <- v })

	requireCode(t, err, crypto.CodeUnknown)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	select {
	case v := <-discarded:
		assert.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("late result was not discarded")
	}
}
