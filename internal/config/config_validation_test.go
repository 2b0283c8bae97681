// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{"valid", func(*StructuredConfig) {}, nil},
		{"keyring backend", func(c *StructuredConfig) { c.Vault.KeyBackend = KeyBackendKeyring }, nil},
		{"file backend with passphrase", func(c *StructuredConfig) {
			c.Vault.KeyBackend = KeyBackendFile
			c.Vault.KeyDir = "/keys"
			c.Vault.Passphrase = "pp"
		}, nil},
		{"file backend without passphrase", func(c *StructuredConfig) {
			c.Vault.KeyBackend = KeyBackendFile
			c.Vault.KeyDir = "/keys"
		}, ErrInvalidVaultConfigs},
		{"unknown backend", func(c *StructuredConfig) { c.Vault.KeyBackend = "tpm" }, ErrInvalidVaultConfigs},
		{"empty key id", func(c *StructuredConfig) { c.Vault.KeyID = "" }, ErrInvalidVaultConfigs},
		{"unknown driver", func(c *StructuredConfig) { c.Storage.Driver = "redis" }, ErrInvalidStorageConfigs},
		{"empty dsn", func(c *StructuredConfig) { c.Storage.DSN = "" }, ErrInvalidStorageConfigs},
		{"zero audit interval", func(c *StructuredConfig) { c.Workers.AuditInterval = 0 }, ErrInvalidWorkerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
