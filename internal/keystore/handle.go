// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keystore

import (
	"context"
	"crypto/cipher"
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
)

// Handle is the opaque [crypto.KeyHandle] handed out by [Provider].
//
// It stores only the key id and the backend. Every AEAD call resolves the
// key through the backend, which serves its cached enclave only while the
// stored key still exists, unseals it into a locked buffer for the time it
// takes to expand the AES key schedule, and destroys the buffer before
// returning.
type Handle struct {
	id      string
	backend Backend
}

func newHandle(id string, backend Backend) *Handle {
	return &Handle{id: id, backend: backend}
}

// ID implements [crypto.KeyHandle].
func (h *Handle) ID() string {
	return h.id
}

// AEAD implements [crypto.KeyHandle].
func (h *Handle) AEAD() (cipher.AEAD, error) {
	enclave, err := h.backend.LoadKey(context.Background(), h.id)
	if err != nil {
		return nil, fmt.Errorf("resolve key %q: %w", h.id, err)
	}

	buf, err := enclave.Open()
	if err != nil {
		return nil, fmt.Errorf("open key enclave: %w", err)
	}
	defer buf.Destroy()

	return crypto.NewGCM(buf.Bytes())
}
