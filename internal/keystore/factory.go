// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keystore

import (
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
)

// NewBackend opens the key store selected by cfg.KeyBackend.
//
// Software-level backends are accepted but logged as a downgrade from the
// OS credential store.
func NewBackend(cfg config.Vault, log *logger.Logger) (Backend, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.KeyBackend {
	case config.KeyBackendMemory:
		backend = NewMemoryBackend()
	case config.KeyBackendKeyring:
		backend, err = NewKeyringBackend(KeyringConfig{
			ServiceName:    cfg.ServiceName,
			FileDir:        cfg.KeyDir,
			FilePassphrase: cfg.Passphrase,
		})
	case config.KeyBackendFile:
		backend, err = NewWrappedFileBackend(cfg.KeyDir, []byte(cfg.Passphrase), crypto.NewKeyWrapper())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.KeyBackend)
	}
	if err != nil {
		log.Err(err).
			Str("func", "keystore.NewBackend").
			Str("backend", cfg.KeyBackend).
			Msg("failed to open key store")
		return nil, err
	}

	if backend.SecurityLevel() < SecurityLevelOS {
		log.Warn().
			Str("func", "keystore.NewBackend").
			Str("backend", backend.Name()).
			Str("security_level", backend.SecurityLevel().String()).
			Msg("master key is not protected by the OS credential store")
	}

	return backend, nil
}
