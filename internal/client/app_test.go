// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/keystore"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/models"
)

func memoryConfig() *config.StructuredConfig {
	cfg := config.Defaults()
	cfg.Vault.KeyBackend = config.KeyBackendMemory
	cfg.Storage = config.Storage{Driver: config.StorageDriverSQLite, DSN: ":memory:"}
	return cfg
}

func TestNewApp_RoundTrip(t *testing.T) {
	ctx := context.Background()

	a, err := NewApp(ctx, memoryConfig(), logger.Nop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close()) }()

	id, err := a.Vault().Add(ctx, "Bank PIN", "1234", models.CategoryNote)
	require.NoError(t, err)

	body, ok := a.Vault().GetDecryptedBody(ctx, id)
	require.True(t, ok)
	assert.Equal(t, "1234", body)
	assert.Equal(t, "vault-master-key", a.Keys().KeyID())
}

func TestNewApp_UnknownKeyBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.Vault.KeyBackend = "tpm"

	_, err := NewApp(context.Background(), cfg, logger.Nop())
	assert.ErrorIs(t, err, keystore.ErrUnknownBackend)
}

func TestNewApp_UnknownStorageDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "postgres"

	_, err := NewApp(context.Background(), cfg, logger.Nop())
	assert.ErrorIs(t, err, store.ErrUnknownDriver)
}

func TestApp_Workers_RunAudit(t *testing.T) {
	cfg := memoryConfig()
	cfg.Workers.AuditInterval = time.Hour

	a, err := NewApp(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Vault().Add(context.Background(), "mail", "hunter2", models.CategoryPassword)
	require.NoError(t, err)

	reports := make(chan models.IntegrityReport, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Workers(func(r models.IntegrityReport) { reports <- r }).Run(ctx)
	}()

	select {
	case r := <-reports:
		assert.Equal(t, 1, r.Checked)
		assert.True(t, r.OK())
	case <-time.After(3 * time.Second):
		t.Fatal("no audit report")
	}

	cancel()
	assert.NoError(t, <-done)
}
