// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
)

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Vault
		wantName string
		wantErr  error
	}{
		{
			name:     "memory",
			cfg:      config.Vault{KeyBackend: config.KeyBackendMemory},
			wantName: "memory",
		},
		{
			name:     "file",
			cfg:      config.Vault{KeyBackend: config.KeyBackendFile, KeyDir: t.TempDir(), Passphrase: "pp"},
			wantName: "file",
		},
		{
			name:    "file without passphrase",
			cfg:     config.Vault{KeyBackend: config.KeyBackendFile, KeyDir: t.TempDir()},
			wantErr: ErrKeyStoreUnavailable,
		},
		{
			name:    "unknown",
			cfg:     config.Vault{KeyBackend: "tpm"},
			wantErr: ErrUnknownBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBackend(tt.cfg, logger.Nop())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, b.Name())
		})
	}
}
