// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// KDFParams are the Argon2id tuning parameters. They are persisted next to
// every wrapped key so that future parameter changes do not orphan old keys.
type KDFParams struct {
	Time      uint32 `json:"time"`
	MemoryKiB uint32 `json:"memory_kib"`
	Threads   uint8  `json:"threads"`
	KeyLen    uint32 `json:"key_len"`
}

// DefaultKDFParams are the Argon2id parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
var DefaultKDFParams = KDFParams{
	Time:      1,
	MemoryKiB: 64 * 1024,
	Threads:   4,
	KeyLen:    KeySize,
}

type keyWrapper struct {
	params KDFParams
	rand   io.Reader
}

// NewKeyWrapper constructs a [KeyWrapper] with [DefaultKDFParams].
func NewKeyWrapper() KeyWrapper {
	return &keyWrapper{params: DefaultKDFParams, rand: rand.Reader}
}

// NewKeyWrapperWithParams constructs a [KeyWrapper] with custom Argon2id
// parameters, e.g. cheap ones in tests.
func NewKeyWrapperWithParams(params KDFParams) KeyWrapper {
	return &keyWrapper{params: params, rand: rand.Reader}
}

func (k *keyWrapper) Params() KDFParams {
	return k.params
}

// GenerateSalt implements [KeyWrapper]. The salt is not secret.
func (k *keyWrapper) GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(k.rand, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKEK implements [KeyWrapper] using Argon2id.
func (k *keyWrapper) DeriveKEK(passphrase []byte, salt []byte, params KDFParams) []byte {
	return argon2.IDKey(
		passphrase,
		salt,
		params.Time,
		params.MemoryKiB,
		params.Threads,
		params.KeyLen,
	)
}

// Wrap implements [KeyWrapper]. blob = nonce ‖ ciphertext ‖ tag.
func (k *keyWrapper) Wrap(key, kek []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKeyLength, len(key))
	}
	gcm, err := newGCM(kek)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(k.rand, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, key, nil), nil
}

// Unwrap implements [KeyWrapper].
func (k *keyWrapper) Unwrap(wrapped, kek []byte) ([]byte, error) {
	gcm, err := newGCM(kek)
	if err != nil {
		return nil, err
	}

	if len(wrapped) < gcm.NonceSize()+gcm.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrUnwrapKey)
	}

	// Split the blob into nonce and actual ciphertext.
	nonce, ciphertext := wrapped[:gcm.NonceSize()], wrapped[gcm.NonceSize():]

	// An error here almost always means a wrong passphrase.
	key, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnwrapKey, err)
	}

	return key, nil
}

// NewGCM builds the AES-256-GCM instance used for envelopes from raw key
// bytes. Key stores call it while the key is briefly unsealed.
func NewGCM(key []byte) (cipher.AEAD, error) {
	return newGCM(key)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKeyLength, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
