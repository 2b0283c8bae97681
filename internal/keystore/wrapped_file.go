// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
)

const keyFileVersion = 1

var keyIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// keyFile is the on-disk layout of a wrapped master key.
type keyFile struct {
	Version    int              `json:"version"`
	KDF        crypto.KDFParams `json:"kdf"`
	Salt       []byte           `json:"salt"`
	WrappedKey []byte           `json:"wrapped_key"`
	CreatedAt  time.Time        `json:"created_at"`
}

// WrappedFileBackend keeps each key in "<dir>/<id>.key", encrypted with a
// KEK derived from a passphrase via Argon2id.
//
// Key files are created by writing a temporary file and hard-linking it to
// the final name, so two processes racing on first use cannot overwrite
// each other: the loser gets [ErrKeyExists].
type WrappedFileBackend struct {
	dir        string
	passphrase *memguard.Enclave
	wrapper    crypto.KeyWrapper

	mu    sync.Mutex
	cache map[string]*memguard.Enclave
}

// NewWrappedFileBackend creates the key directory if needed. passphrase is
// moved into an enclave and wiped.
func NewWrappedFileBackend(dir string, passphrase []byte, wrapper crypto.KeyWrapper) (*WrappedFileBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty key directory", ErrKeyStoreUnavailable)
	}
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", ErrKeyStoreUnavailable)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: create key dir: %w", ErrKeyStoreUnavailable, err)
	}

	return &WrappedFileBackend{
		dir:        dir,
		passphrase: memguard.NewEnclave(passphrase),
		wrapper:    wrapper,
		cache:      make(map[string]*memguard.Enclave),
	}, nil
}

func (f *WrappedFileBackend) Name() string { return "file" }

func (f *WrappedFileBackend) SecurityLevel() SecurityLevel { return SecurityLevelSoftware }

// GenerateKey implements [Backend].
func (f *WrappedFileBackend) GenerateKey(_ context.Context, id string) error {
	path, err := f.keyPath(id)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.cache[id]; ok {
		return ErrKeyExists
	}
	if _, err = os.Stat(path); err == nil {
		return ErrKeyExists
	}

	buf := memguard.NewBufferRandom(crypto.KeySize)

	payload, err := f.wrap(buf.Bytes())
	if err != nil {
		buf.Destroy()
		return err
	}

	if err = writeExclusive(path, payload); err != nil {
		buf.Destroy()
		return err
	}

	f.cache[id] = buf.Seal()
	return nil
}

// LoadKey implements [Backend]. Unwrapped keys are cached; a cached key is
// dropped once its file is gone.
func (f *WrappedFileBackend) LoadKey(_ context.Context, id string) (*memguard.Enclave, error) {
	path, err := f.keyPath(id)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if enclave, ok := f.cache[id]; ok {
		if _, err = os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			return enclave, nil
		}
		delete(f.cache, id)
		return nil, ErrKeyNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: read key file: %w", ErrKeyStoreUnavailable, err)
	}

	var kf keyFile
	if err = json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("%w: decode key file: %w", ErrCorruptedKey, err)
	}
	if kf.Version != keyFileVersion {
		return nil, fmt.Errorf("%w: unsupported key file version %d", ErrCorruptedKey, kf.Version)
	}

	key, err := f.unwrap(kf)
	if err != nil {
		return nil, err
	}
	if len(key) != crypto.KeySize {
		memguard.WipeBytes(key)
		return nil, fmt.Errorf("%w: %d byte key", ErrCorruptedKey, len(key))
	}

	enclave := memguard.NewEnclave(key)
	f.cache[id] = enclave
	return enclave, nil
}

// DeleteKey implements [Backend].
func (f *WrappedFileBackend) DeleteKey(_ context.Context, id string) error {
	path, err := f.keyPath(id)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.cache, id)
	if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove key file: %w", ErrKeyStoreUnavailable, err)
	}
	return nil
}

func (f *WrappedFileBackend) keyPath(id string) (string, error) {
	if !keyIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKeyID, id)
	}
	return filepath.Join(f.dir, id+".key"), nil
}

func (f *WrappedFileBackend) wrap(key []byte) ([]byte, error) {
	salt, err := f.wrapper.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("%w: generate salt: %w", ErrKeyStoreUnavailable, err)
	}

	params := f.wrapper.Params()
	kek, err := f.deriveKEK(salt, params)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(kek)

	wrapped, err := f.wrapper.Wrap(key, kek)
	if err != nil {
		return nil, fmt.Errorf("%w: wrap key: %w", ErrKeyStoreUnavailable, err)
	}

	payload, err := json.MarshalIndent(keyFile{
		Version:    keyFileVersion,
		KDF:        params,
		Salt:       salt,
		WrappedKey: wrapped,
		CreatedAt:  time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode key file: %w", err)
	}
	return payload, nil
}

func (f *WrappedFileBackend) unwrap(kf keyFile) ([]byte, error) {
	kek, err := f.deriveKEK(kf.Salt, kf.KDF)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(kek)

	key, err := f.wrapper.Unwrap(kf.WrappedKey, kek)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptedKey, err)
	}
	return key, nil
}

func (f *WrappedFileBackend) deriveKEK(salt []byte, params crypto.KDFParams) ([]byte, error) {
	pass, err := f.passphrase.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open passphrase: %w", ErrKeyStoreUnavailable, err)
	}
	defer pass.Destroy()

	return f.wrapper.DeriveKEK(pass.Bytes(), salt, params), nil
}

// writeExclusive writes data to a temp file in the target directory and
// hard-links it to path. The link fails if path already exists, which makes
// creation atomic and never overwriting.
func writeExclusive(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-key-*")
	if err != nil {
		return fmt.Errorf("%w: create temp key file: %w", ErrKeyStoreUnavailable, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write temp key file: %w", ErrKeyStoreUnavailable, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync temp key file: %w", ErrKeyStoreUnavailable, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp key file: %w", ErrKeyStoreUnavailable, err)
	}
	if err = os.Chmod(tmpPath, 0o600); err != nil {
		return fmt.Errorf("%w: chmod temp key file: %w", ErrKeyStoreUnavailable, err)
	}

	if err = os.Link(tmpPath, path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrKeyExists
		}
		return fmt.Errorf("%w: link key file: %w", ErrKeyStoreUnavailable, err)
	}
	return nil
}
