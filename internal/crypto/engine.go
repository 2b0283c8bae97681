// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	// NonceSize is the GCM nonce length in bytes (96 bits).
	NonceSize = 12

	// TagSize is the GCM authentication tag length in bytes (128 bits).
	TagSize = 16

	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	minEnvelopeSize = NonceSize + TagSize
)

// engine is the private implementation of [Engine]. It holds no key state;
// the only field is the randomness source for nonces.
type engine struct {
	rand io.Reader
}

// NewEngine constructs an [Engine] that draws nonces from crypto/rand.
func NewEngine() Engine {
	return &engine{rand: rand.Reader}
}

// NewEngineWithRand constructs an [Engine] with a custom nonce source.
// Only tests should need it.
func NewEngineWithRand(r io.Reader) Engine {
	return &engine{rand: r}
}

// Encrypt implements [Engine]. A new nonce is read for every call and the
// output is base64(nonce ‖ ciphertext ‖ tag).
func (e *engine) Encrypt(plaintext []byte, key KeyHandle) (string, error) {
	if key == nil {
		return "", fmt.Errorf("%w: nil key handle", ErrEncryption)
	}

	// 1. Resolve the key into an AEAD instance
	aead, err := key.AEAD()
	if err != nil {
		return "", fmt.Errorf("%w: resolve key: %w", ErrEncryption, err)
	}
	if aead.NonceSize() != NonceSize || aead.Overhead() != TagSize {
		return "", fmt.Errorf("%w: unexpected aead geometry (nonce=%d, tag=%d)",
			ErrEncryption, aead.NonceSize(), aead.Overhead())
	}

	// 2. Generate a random nonce
	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	if _, err = io.ReadFull(e.rand, nonce); err != nil {
		return "", fmt.Errorf("%w: generate nonce: %w", ErrEncryption, err)
	}

	// 3. Seal: nonce ‖ ciphertext ‖ tag
	blob := aead.Seal(nonce, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [Engine].
func (e *engine) Decrypt(envelope string, key KeyHandle) ([]byte, error) {
	// 1. Decode base64 blob
	blob, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, newDecryptError(ReasonMalformedEncoding, err)
	}
	if len(blob) < minEnvelopeSize {
		return nil, newDecryptError(ReasonTooShort,
			fmt.Errorf("envelope is %d bytes, need at least %d", len(blob), minEnvelopeSize))
	}

	// 2. Resolve the key
	if key == nil {
		return nil, newDecryptError(ReasonKeyUnresolved, errors.New("nil key handle"))
	}
	aead, err := key.AEAD()
	if err != nil {
		return nil, newDecryptError(ReasonKeyUnresolved, err)
	}

	// 3. Split nonce and ciphertext, then verify the tag
	nonce, ciphertext := blob[:NonceSize], blob[NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, newDecryptError(ReasonAuthenticationFailed, err)
	}

	return plaintext, nil
}
