// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keystore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/99designs/keyring"
	"github.com/awnumar/memguard"
	"github.com/gofrs/flock"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
)

const (
	keyringLockFile  = ".keyring.lock"
	keyringLockRetry = 25 * time.Millisecond
	keyringLockWait  = 10 * time.Second
)

// KeyringConfig configures [NewKeyringBackend].
type KeyringConfig struct {
	// ServiceName groups the vault's items in the OS credential store.
	ServiceName string

	// AllowedBackends restricts which keyring implementations may be used.
	// Empty means every backend available on the platform.
	AllowedBackends []keyring.BackendType

	// FileDir is used by the encrypted-file keyring fallback.
	FileDir string

	// FilePassphrase unlocks the encrypted-file keyring fallback. Without it
	// the fallback is never opened.
	FilePassphrase string

	// LockDir holds the lock file that serialises key creation across
	// processes. Defaults to FileDir.
	LockDir string
}

// KeyringBackend stores the master key as a single item in the OS
// credential store.
//
// The key is generated inside a locked buffer and handed to the keyring
// once; after that it is only kept in memory as a sealed enclave. The OS
// store does not offer create-if-absent, so GenerateKey holds a file lock
// shared by every process using the same lock directory and re-checks for
// an existing item before writing.
type KeyringBackend struct {
	ring  keyring.Keyring
	level SecurityLevel
	lock  *flock.Flock

	mu    sync.Mutex
	cache map[string]*memguard.Enclave
}

// NewKeyringBackend opens the platform keyring described by cfg.
//
// OS credential stores are tried first. The encrypted-file keyring is only
// a fallback when a passphrase is configured, and a backend opened on it
// reports [SecurityLevelSoftware]. Returns [ErrKeyStoreUnavailable] when
// nothing can be opened.
func NewKeyringBackend(cfg KeyringConfig) (*KeyringBackend, error) {
	allowed := cfg.AllowedBackends
	if len(allowed) == 0 {
		allowed = keyring.AvailableBackends()
	}
	osBackends := slices.DeleteFunc(slices.Clone(allowed), func(b keyring.BackendType) bool {
		return b == keyring.FileBackend
	})

	lockDir := cfg.LockDir
	if lockDir == "" {
		lockDir = cfg.FileDir
	}

	openErr := error(keyring.ErrNoAvailImpl)
	if len(osBackends) > 0 {
		ring, err := keyring.Open(keyringConfig(cfg, osBackends))
		if err == nil {
			return newKeyringBackend(ring, SecurityLevelOS, lockDir), nil
		}
		openErr = err
	}

	if slices.Contains(allowed, keyring.FileBackend) {
		if cfg.FilePassphrase == "" || cfg.FileDir == "" {
			return nil, fmt.Errorf("%w: no OS credential store (%w) and no passphrase for the file fallback",
				ErrKeyStoreUnavailable, openErr)
		}
		ring, err := keyring.Open(keyringConfig(cfg, []keyring.BackendType{keyring.FileBackend}))
		if err == nil {
			return newKeyringBackend(ring, SecurityLevelSoftware, lockDir), nil
		}
		openErr = err
	}

	return nil, fmt.Errorf("%w: open keyring: %w", ErrKeyStoreUnavailable, openErr)
}

func keyringConfig(cfg KeyringConfig, backends []keyring.BackendType) keyring.Config {
	return keyring.Config{
		ServiceName:      cfg.ServiceName,
		AllowedBackends:  backends,
		FileDir:          cfg.FileDir,
		FilePasswordFunc: keyring.FixedStringPrompt(cfg.FilePassphrase),

		KeychainName:                   cfg.ServiceName,
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,

		LibSecretCollectionName: cfg.ServiceName,
		KWalletAppID:            cfg.ServiceName,
		KWalletFolder:           cfg.ServiceName,
		WinCredPrefix:           cfg.ServiceName,
	}
}

// NewKeyringBackendFrom wraps an already opened OS keyring. An empty
// lockDir limits the creation guard to this process.
func NewKeyringBackendFrom(ring keyring.Keyring, lockDir string) *KeyringBackend {
	return newKeyringBackend(ring, SecurityLevelOS, lockDir)
}

func newKeyringBackend(ring keyring.Keyring, level SecurityLevel, lockDir string) *KeyringBackend {
	b := &KeyringBackend{
		ring:  ring,
		level: level,
		cache: make(map[string]*memguard.Enclave),
	}
	if lockDir != "" {
		b.lock = flock.New(filepath.Join(lockDir, keyringLockFile))
	}
	return b
}

func (k *KeyringBackend) Name() string { return "keyring" }

// SecurityLevel is [SecurityLevelOS] unless the encrypted-file fallback
// was opened.
func (k *KeyringBackend) SecurityLevel() SecurityLevel { return k.level }

// GenerateKey implements [Backend].
func (k *KeyringBackend) GenerateKey(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidKeyID
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.cache[id]; ok {
		return ErrKeyExists
	}

	unlock, err := k.lockCreation(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	_, err = k.ring.Get(id)
	switch {
	case err == nil:
		return ErrKeyExists
	case !errors.Is(err, keyring.ErrKeyNotFound):
		return fmt.Errorf("%w: lookup %q: %w", ErrKeyStoreUnavailable, id, err)
	}

	buf := memguard.NewBufferRandom(crypto.KeySize)

	// The keyring may retain the slice it is given, so it gets its own copy.
	data := make([]byte, crypto.KeySize)
	copy(data, buf.Bytes())

	err = k.ring.Set(keyring.Item{
		Key:         id,
		Data:        data,
		Label:       "vault master key",
		Description: "AES-256 master key of the local vault",
	})
	if err != nil {
		buf.Destroy()
		return fmt.Errorf("%w: store %q: %w", ErrKeyStoreUnavailable, id, err)
	}

	k.cache[id] = buf.Seal()
	return nil
}

// lockCreation takes the cross-process creation lock, waiting at most
// keyringLockWait. The returned func releases it.
func (k *KeyringBackend) lockCreation(ctx context.Context) (func(), error) {
	if k.lock == nil {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(k.lock.Path()), 0o700); err != nil {
		return nil, fmt.Errorf("%w: create lock dir: %w", ErrKeyStoreUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, keyringLockWait)
	defer cancel()

	locked, err := k.lock.TryLockContext(ctx, keyringLockRetry)
	if err != nil {
		return nil, fmt.Errorf("%w: lock key creation: %w", ErrKeyStoreUnavailable, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: key creation lock is held", ErrKeyStoreUnavailable)
	}

	return func() { _ = k.lock.Unlock() }, nil
}

// LoadKey implements [Backend]. The first successful lookup is cached as
// an enclave so later crypto calls do not fetch the secret again. Where the
// keyring can report item metadata without credentials, a cached key is
// dropped once the item is gone from the store.
//
// Uncached lookups take the creation lock so they never observe an item
// another process is still writing.
func (k *KeyringBackend) LoadKey(ctx context.Context, id string) (*memguard.Enclave, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if enclave, ok := k.cache[id]; ok {
		_, err := k.ring.GetMetadata(id)
		if !errors.Is(err, keyring.ErrKeyNotFound) {
			return enclave, nil
		}
		delete(k.cache, id)
		return nil, ErrKeyNotFound
	}

	unlock, err := k.lockCreation(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	item, err := k.ring.Get(id)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: get %q: %w", ErrKeyStoreUnavailable, id, err)
	}
	if len(item.Data) != crypto.KeySize {
		return nil, fmt.Errorf("%w: %q has %d bytes", ErrCorruptedKey, id, len(item.Data))
	}

	// NewEnclave wipes its input; the keyring keeps its own slice.
	raw := make([]byte, crypto.KeySize)
	copy(raw, item.Data)
	enclave := memguard.NewEnclave(raw)

	k.cache[id] = enclave
	return enclave, nil
}

// DeleteKey implements [Backend].
func (k *KeyringBackend) DeleteKey(_ context.Context, id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	delete(k.cache, id)
	if err := k.ring.Remove(id); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("%w: remove %q: %w", ErrKeyStoreUnavailable, id, err)
	}
	return nil
}
