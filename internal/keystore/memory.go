// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keystore

import (
	"context"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
)

// MemoryBackend keeps keys in memguard enclaves for the lifetime of the
// process. Nothing is written to disk.
type MemoryBackend struct {
	mu   sync.RWMutex
	keys map[string]*memguard.Enclave
}

// NewMemoryBackend returns an empty [MemoryBackend].
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{keys: make(map[string]*memguard.Enclave)}
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) SecurityLevel() SecurityLevel { return SecurityLevelSoftware }

// GenerateKey implements [Backend]. The key is drawn directly into an
// enclave.
func (m *MemoryBackend) GenerateKey(_ context.Context, id string) error {
	if id == "" {
		return ErrInvalidKeyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.keys[id]; ok {
		return ErrKeyExists
	}
	m.keys[id] = memguard.NewEnclaveRandom(crypto.KeySize)
	return nil
}

// LoadKey implements [Backend].
func (m *MemoryBackend) LoadKey(_ context.Context, id string) (*memguard.Enclave, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	enclave, ok := m.keys[id]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return enclave, nil
}

// DeleteKey implements [Backend].
func (m *MemoryBackend) DeleteKey(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.keys, id)
	return nil
}
