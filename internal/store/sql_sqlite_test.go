// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/models"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantPath     string
		wantDSN      string
		wantInMemory bool
	}{
		{
			name:         "memory",
			raw:          ":memory:",
			wantDSN:      ":memory:",
			wantInMemory: true,
		},
		{
			name:         "shared memory uri",
			raw:          "file::memory:?cache=shared",
			wantDSN:      "file::memory:?cache=shared",
			wantInMemory: true,
		},
		{
			name:     "plain path",
			raw:      "/var/lib/vault/vault.db",
			wantPath: "/var/lib/vault/vault.db",
			wantDSN:  "/var/lib/vault/vault.db?" + sqliteOptions,
		},
		{
			name:     "uri without query",
			raw:      "file:/var/lib/vault/vault.db",
			wantPath: "/var/lib/vault/vault.db",
			wantDSN:  "file:/var/lib/vault/vault.db?" + sqliteOptions,
		},
		{
			name:     "uri with query",
			raw:      "file:/var/lib/vault/vault.db?cache=shared",
			wantPath: "/var/lib/vault/vault.db",
			wantDSN:  "file:/var/lib/vault/vault.db?cache=shared&" + sqliteOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, dsn, inMemory := sqliteDSN(tt.raw)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantDSN, dsn)
			assert.Equal(t, tt.wantInMemory, inMemory)
		})
	}
}

func TestNewItemStore_SQLiteURI(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vault.db")
	cfg := config.Storage{Driver: config.StorageDriverSQLite, DSN: "file:" + path + "?cache=private"}

	s := openStore(t, cfg)
	item := testItem("uri", models.CategoryNote, time.Minute)
	require.NoError(t, s.Create(ctx, item))

	assert.FileExists(t, path)

	reopened := openStore(t, config.Storage{Driver: config.StorageDriverSQLite, DSN: path})
	got, err := reopened.Read(ctx, "uri")
	require.NoError(t, err)
	assert.Equal(t, item, got)
}
