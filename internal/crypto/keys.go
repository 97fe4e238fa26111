// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
)

// Key is a handle to AES-256 key material held in a memguard enclave.
// The set of implementations is closed: *SealedKey and *ExportableKey.
type Key interface {
	// Destroy drops the key material. Further use fails with KindKeyDestroyed.
	Destroy()
	// Destroyed reports whether Destroy or Seal has been called.
	Destroyed() bool

	handle() *keyHandle
}

type keyHandle struct {
	mu      sync.RWMutex
	enclave *memguard.Enclave
}

func (h *keyHandle) handle() *keyHandle {
	return h
}

func (h *keyHandle) Destroy() {
	h.mu.Lock()
	h.enclave = nil
	h.mu.Unlock()
}

func (h *keyHandle) Destroyed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.enclave == nil
}

// take detaches the enclave from h, leaving h destroyed.
func (h *keyHandle) take() *memguard.Enclave {
	h.mu.Lock()
	defer h.mu.Unlock()
	enclave := h.enclave
	h.enclave = nil
	return enclave
}

// withKeyBytes decrypts the enclave into a locked buffer for the duration
// of fn. The buffer is destroyed when fn returns; fn must not retain it.
func withKeyBytes(op string, key Key, fn func(raw []byte) error) error {
	if key == nil {
		return newError(op, KindKeyDestroyed, nil)
	}

	h := key.handle()
	h.mu.RLock()
	enclave := h.enclave
	h.mu.RUnlock()
	if enclave == nil {
		return newError(op, KindKeyDestroyed, nil)
	}

	buf, err := enclave.Open()
	if err != nil {
		return newError(op, KindOther, fmt.Errorf("open enclave: %w", err))
	}
	defer buf.Destroy()

	return fn(buf.Bytes())
}

// SealedKey is an operational key. It encrypts, decrypts, wraps and
// unwraps, and offers no way to read its bytes.
type SealedKey struct {
	keyHandle
}

// newSealedKey moves raw into an enclave; raw is wiped.
func newSealedKey(raw []byte) *SealedKey {
	return &SealedKey{keyHandle: keyHandle{enclave: memguard.NewEnclave(raw)}}
}

// ExportableKey is a data key whose raw bytes can be read. It exists only
// while a key bundle or recovery bundle is being (re)generated; convert it
// with Seal as soon as export is no longer needed.
type ExportableKey struct {
	keyHandle
}

func newExportableKey(raw []byte) *ExportableKey {
	return &ExportableKey{keyHandle: keyHandle{enclave: memguard.NewEnclave(raw)}}
}

// Export returns a copy of the raw key bytes. The caller owns the copy and
// should wipe it with memguard.WipeBytes when done.
func (k *ExportableKey) Export() ([]byte, error) {
	var out []byte
	err := withKeyBytes("export", k, func(raw []byte) error {
		out = make([]byte, len(raw))
		copy(out, raw)
		return nil
	})
	if err != nil {
		if IsKind(err, KindKeyDestroyed) {
			return nil, err
		}
		return nil, newError("export", KindExport, err)
	}
	return out, nil
}

// Seal converts k into a SealedKey holding the same material. The
// conversion is one way: k is destroyed and can no longer export.
func (k *ExportableKey) Seal() (*SealedKey, error) {
	enclave := k.take()
	if enclave == nil {
		return nil, newError("seal", KindKeyDestroyed, nil)
	}
	return &SealedKey{keyHandle: keyHandle{enclave: enclave}}, nil
}

// Clone returns an independent exportable copy of k.
func (k *ExportableKey) Clone() (*ExportableKey, error) {
	raw, err := k.Export()
	if err != nil {
		return nil, err
	}
	return newExportableKey(raw), nil
}

// ImportDataKey re-imports raw AES-256 key bytes as an exportable handle.
// raw is wiped in every case.
func ImportDataKey(raw []byte) (*ExportableKey, error) {
	if len(raw) != KeySize {
		memguard.WipeBytes(raw)
		return nil, newError("import", KindImport, fmt.Errorf("key is %d bytes, want %d", len(raw), KeySize))
	}
	return newExportableKey(raw), nil
}
