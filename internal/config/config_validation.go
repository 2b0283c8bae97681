// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] is usable before
// anything is opened.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Vault.KeyBackend {
	case KeyBackendMemory, KeyBackendKeyring:
	case KeyBackendFile:
		if cfg.Vault.KeyDir == "" || cfg.Vault.Passphrase == "" {
			return fmt.Errorf("%w: file key backend needs a key dir and a passphrase", ErrInvalidVaultConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown key backend %q", ErrInvalidVaultConfigs, cfg.Vault.KeyBackend)
	}

	if cfg.Vault.KeyID == "" {
		return fmt.Errorf("%w: empty key id", ErrInvalidVaultConfigs)
	}

	switch cfg.Storage.Driver {
	case StorageDriverSQLite, StorageDriverFile:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.Driver)
	}

	if cfg.Storage.DSN == "" {
		return fmt.Errorf("%w: empty dsn", ErrInvalidStorageConfigs)
	}

	if cfg.Workers.AuditInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
