// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keystore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
)

// fileKeyringConfig describes an encrypted-file keyring in dir, usable
// without any OS credential service.
func fileKeyringConfig(dir string) KeyringConfig {
	return KeyringConfig{
		ServiceName:     "vault-test",
		AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		FileDir:         dir,
		FilePassphrase:  "test-passphrase",
	}
}

func TestKeyringBackend_GenerateAndLoad(t *testing.T) {
	ctx := context.Background()
	ring := keyring.NewArrayKeyring(nil)
	b := NewKeyringBackendFrom(ring, "")

	assert.Equal(t, "keyring", b.Name())
	assert.Equal(t, SecurityLevelOS, b.SecurityLevel())

	_, err := b.LoadKey(ctx, "master")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, b.GenerateKey(ctx, "master"))

	item, err := ring.Get("master")
	require.NoError(t, err)
	assert.Len(t, item.Data, crypto.KeySize)

	enclave, err := b.LoadKey(ctx, "master")
	require.NoError(t, err)
	buf, err := enclave.Open()
	require.NoError(t, err)
	defer buf.Destroy()
	assert.Equal(t, item.Data, buf.Bytes())
}

// TestKeyringBackend_SurvivesRestart verifies that a second backend over the
// same keyring sees the key and refuses to create another one.
func TestKeyringBackend_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	ring := keyring.NewArrayKeyring(nil)

	first := NewKeyringBackendFrom(ring, "")
	require.NoError(t, first.GenerateKey(ctx, "master"))

	second := NewKeyringBackendFrom(ring, "")
	assert.ErrorIs(t, second.GenerateKey(ctx, "master"), ErrKeyExists)

	e1, err := first.LoadKey(ctx, "master")
	require.NoError(t, err)
	e2, err := second.LoadKey(ctx, "master")
	require.NoError(t, err)

	b1, err := e1.Open()
	require.NoError(t, err)
	defer b1.Destroy()
	b2, err := e2.Open()
	require.NoError(t, err)
	defer b2.Destroy()
	assert.Equal(t, b1.Bytes(), b2.Bytes())
}

func TestKeyringBackend_CorruptedItem(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: "master", Data: []byte("short")}})
	b := NewKeyringBackendFrom(ring, "")

	_, err := b.LoadKey(context.Background(), "master")
	assert.ErrorIs(t, err, ErrCorruptedKey)
}

func TestKeyringBackend_Delete(t *testing.T) {
	ctx := context.Background()
	ring := keyring.NewArrayKeyring(nil)
	b := NewKeyringBackendFrom(ring, "")

	require.NoError(t, b.GenerateKey(ctx, "master"))
	require.NoError(t, b.DeleteKey(ctx, "master"))
	require.NoError(t, b.DeleteKey(ctx, "master"))

	_, err := b.LoadKey(ctx, "master")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestKeyringBackend_EmptyID(t *testing.T) {
	b := NewKeyringBackendFrom(keyring.NewArrayKeyring(nil), "")
	assert.ErrorIs(t, b.GenerateKey(context.Background(), ""), ErrInvalidKeyID)
}

// TestNewKeyringBackend_FileFallback opens the encrypted-file keyring, which
// works without any OS credential service.
func TestNewKeyringBackend_FileFallback(t *testing.T) {
	ctx := context.Background()
	cfg := fileKeyringConfig(t.TempDir())

	b, err := NewKeyringBackend(cfg)
	require.NoError(t, err)
	assert.Equal(t, SecurityLevelSoftware, b.SecurityLevel())
	require.NoError(t, b.GenerateKey(ctx, "master"))

	reopened, err := NewKeyringBackend(cfg)
	require.NoError(t, err)
	enclave, err := reopened.LoadKey(ctx, "master")
	require.NoError(t, err)
	assert.Equal(t, crypto.KeySize, enclave.Size())
}

func TestNewKeyringBackend_FileFallbackNeedsPassphrase(t *testing.T) {
	dir := t.TempDir()
	cfg := fileKeyringConfig(dir)
	cfg.FilePassphrase = ""

	_, err := NewKeyringBackend(cfg)
	require.ErrorIs(t, err, ErrKeyStoreUnavailable)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestNewBackend_KeyringWithoutPassphrase checks the default keyring
// configuration: either an OS store is opened or opening fails. The file
// fallback is never used without a passphrase.
func TestNewBackend_KeyringWithoutPassphrase(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Vault{
		KeyBackend:  config.KeyBackendKeyring,
		KeyDir:      dir,
		ServiceName: "vault-test",
	}

	b, err := NewBackend(cfg, logger.Nop())
	if err != nil {
		assert.ErrorIs(t, err, ErrKeyStoreUnavailable)
	} else {
		assert.Equal(t, SecurityLevelOS, b.SecurityLevel())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestKeyringBackend_CreationAcrossInstances races two backends over one
// keyring the way two vault processes would on a fresh install. Exactly one
// key may ever be created.
func TestKeyringBackend_CreationAcrossInstances(t *testing.T) {
	for range 20 {
		cfg := fileKeyringConfig(t.TempDir())

		first, err := NewKeyringBackend(cfg)
		require.NoError(t, err)
		second, err := NewKeyringBackend(cfg)
		require.NoError(t, err)

		providers := []*Provider{
			NewProvider(first, "master", logger.Nop()),
			NewProvider(second, "master", logger.Nop()),
		}

		start := make(chan struct{})
		errs := make([]error, len(providers))
		var wg sync.WaitGroup
		for i, p := range providers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, errs[i] = p.GetOrCreateKey(context.Background())
			}()
		}
		close(start)
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		fresh, err := NewKeyringBackend(cfg)
		require.NoError(t, err)
		stored := openKey(t, fresh, "master")

		assert.Equal(t, stored, openKey(t, first, "master"))
		assert.Equal(t, stored, openKey(t, second, "master"))
	}
}

func TestKeyringBackend_CreationWaitsForLock(t *testing.T) {
	dir := t.TempDir()
	ring := keyring.NewArrayKeyring(nil)
	b := NewKeyringBackendFrom(ring, dir)

	held := flock.New(filepath.Join(dir, keyringLockFile))
	require.NoError(t, held.Lock())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, b.GenerateKey(ctx, "master"), ErrKeyStoreUnavailable)

	_, err := ring.Get("master")
	require.ErrorIs(t, err, keyring.ErrKeyNotFound)

	require.NoError(t, held.Unlock())
	require.NoError(t, b.GenerateKey(context.Background(), "master"))
}

// TestKeyringBackend_KeyRemovedElsewhere checks that a cached key stops
// resolving once another instance removed it from the store.
func TestKeyringBackend_KeyRemovedElsewhere(t *testing.T) {
	ctx := context.Background()
	cfg := fileKeyringConfig(t.TempDir())

	first, err := NewKeyringBackend(cfg)
	require.NoError(t, err)
	require.NoError(t, first.GenerateKey(ctx, "master"))
	_, err = first.LoadKey(ctx, "master")
	require.NoError(t, err)

	second, err := NewKeyringBackend(cfg)
	require.NoError(t, err)
	require.NoError(t, second.DeleteKey(ctx, "master"))

	_, err = first.LoadKey(ctx, "master")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestNewKeyringBackend_NoBackend(t *testing.T) {
	_, err := NewKeyringBackend(KeyringConfig{
		ServiceName:     "vault-test",
		AllowedBackends: []keyring.BackendType{keyring.BackendType("nonexistent")},
	})
	assert.ErrorIs(t, err, ErrKeyStoreUnavailable)
}
