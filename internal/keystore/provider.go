// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keystore

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
)

// DefaultKeyID is the well-known identifier of the vault master key.
const DefaultKeyID = "vault-master-key"

// Provider guarantees that exactly one master key exists under its key id
// and hands out opaque handles to it.
//
// Construct one Provider per key store at startup and pass it by pointer;
// it holds the only first-use guard for the key.
type Provider struct {
	backend Backend
	keyID   string
	log     *logger.Logger

	group  singleflight.Group
	handle atomic.Pointer[Handle]
}

// NewProvider returns a Provider for keyID on backend. An empty keyID
// selects [DefaultKeyID].
func NewProvider(backend Backend, keyID string, log *logger.Logger) *Provider {
	if keyID == "" {
		keyID = DefaultKeyID
	}
	return &Provider{
		backend: backend,
		keyID:   keyID,
		log:     log,
	}
}

// KeyID returns the identifier the provider manages.
func (p *Provider) KeyID() string {
	return p.keyID
}

// Backend returns the underlying key store.
func (p *Provider) Backend() Backend {
	return p.backend
}

// GetOrCreateKey returns a handle to the master key, creating the key on
// first use.
//
// The check-then-create sequence runs inside a single-flight section keyed
// by the key id: concurrent first-time callers wait for the one in flight
// and receive its handle. Once a handle exists it is served from an atomic
// pointer without locking. Creation is detached from ctx cancellation so an
// abandoned caller cannot leave a half-created key behind. Failures are not
// cached; the next call tries again. Every failure matches [ErrKeyAccess].
func (p *Provider) GetOrCreateKey(ctx context.Context) (crypto.KeyHandle, error) {
	if h := p.handle.Load(); h != nil {
		return h, nil
	}

	v, err, _ := p.group.Do(p.keyID, func() (any, error) {
		if h := p.handle.Load(); h != nil {
			return h, nil
		}

		h, err := p.loadOrCreate(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		p.handle.Store(h)
		return h, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Handle), nil
}

func (p *Provider) loadOrCreate(ctx context.Context) (*Handle, error) {
	_, err := p.backend.LoadKey(ctx, p.keyID)
	if err == nil {
		return newHandle(p.keyID, p.backend), nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		p.log.Err(err).
			Str("func", "Provider.loadOrCreate").
			Str("backend", p.backend.Name()).
			Str("key_id", p.keyID).
			Msg("failed to load master key")
		return nil, fmt.Errorf("%w: load: %w", ErrKeyAccess, err)
	}

	err = p.backend.GenerateKey(ctx, p.keyID)
	switch {
	case err == nil:
		p.log.Info().
			Str("func", "Provider.loadOrCreate").
			Str("backend", p.backend.Name()).
			Str("security_level", p.backend.SecurityLevel().String()).
			Str("key_id", p.keyID).
			Msg("master key created")

	case errors.Is(err, ErrKeyExists):
		// Another process created it between our lookup and our generate.
		if _, err = p.backend.LoadKey(ctx, p.keyID); err != nil {
			p.log.Err(err).
				Str("func", "Provider.loadOrCreate").
				Str("key_id", p.keyID).
				Msg("failed to load master key created concurrently")
			return nil, fmt.Errorf("%w: load after concurrent create: %w", ErrKeyAccess, err)
		}

	default:
		p.log.Err(err).
			Str("func", "Provider.loadOrCreate").
			Str("backend", p.backend.Name()).
			Str("key_id", p.keyID).
			Msg("failed to generate master key")
		return nil, fmt.Errorf("%w: generate: %w", ErrKeyAccess, err)
	}

	return newHandle(p.keyID, p.backend), nil
}

// DeleteKey removes the master key from the backend and forgets the cached
// handle. Every record encrypted under the key becomes unreadable; vault
// operations never call it.
func (p *Provider) DeleteKey(ctx context.Context) error {
	p.handle.Store(nil)
	if err := p.backend.DeleteKey(ctx, p.keyID); err != nil {
		return fmt.Errorf("%w: delete: %w", ErrKeyAccess, err)
	}
	p.log.Warn().
		Str("func", "Provider.DeleteKey").
		Str("key_id", p.keyID).
		Msg("master key deleted")
	return nil
}
