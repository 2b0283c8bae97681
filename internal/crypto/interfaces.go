// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "crypto/cipher"

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// KeyHandle is an opaque reference to a symmetric key held by a key store.
//
// A handle never hands out raw key bytes. It only builds an AEAD instance
// bound to the key, which is all the engine needs. Implementations resolve
// the key at call time, so a key that was deleted or rotated out of its
// store makes AEAD fail instead of silently using stale material.
type KeyHandle interface {
	// ID returns the identifier under which the key is stored.
	ID() string

	// AEAD returns an AES-256-GCM instance (12-byte nonce, 16-byte tag)
	// keyed with the referenced key.
	AEAD() (cipher.AEAD, error)
}

// Engine turns plaintext into a tamper-evident envelope and back.
//
// Envelope layout (base64, standard encoding):
//
//	nonce (12 bytes) ‖ ciphertext ‖ authentication tag (16 bytes)
type Engine interface {
	// Encrypt seals plaintext under key with a freshly generated random
	// nonce and returns the base64 envelope. Errors match [ErrEncryption].
	Encrypt(plaintext []byte, key KeyHandle) (string, error)

	// Decrypt opens an envelope produced by Encrypt. Every failure matches
	// [ErrDecryption] and renders the same message regardless of its cause;
	// use [DecryptReasonOf] for diagnostics.
	Decrypt(envelope string, key KeyHandle) ([]byte, error)
}

// KeyWrapper protects a master key at rest with a passphrase-derived
// key-encryption key (KEK). It backs the software key store.
//
// Scheme:
//
//	Salt    = GenerateSalt()
//	KEK     = DeriveKEK(passphrase, salt, params)   (Argon2id)
//	Wrapped = Wrap(masterKey, KEK)                  (AES-256-GCM, nonce ‖ ct ‖ tag)
type KeyWrapper interface {
	// Params returns the Argon2id parameters used by DeriveKEK for new keys.
	Params() KDFParams

	// GenerateSalt returns 16 random bytes.
	GenerateSalt() ([]byte, error)

	// DeriveKEK derives a 256-bit KEK from passphrase and salt.
	DeriveKEK(passphrase []byte, salt []byte, params KDFParams) []byte

	// Wrap encrypts key with kek. The result is nonce ‖ ciphertext ‖ tag.
	Wrap(key, kek []byte) ([]byte, error)

	// Unwrap reverses Wrap. A wrong KEK or a corrupted blob fails the
	// authentication check.
	Unwrap(wrapped, kek []byte) ([]byte, error)
}
