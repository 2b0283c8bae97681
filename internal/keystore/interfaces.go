// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keystore

import (
	"context"

	"github.com/awnumar/memguard"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/keystore_mock.go -package=mock

// SecurityLevel describes where a backend keeps key material.
type SecurityLevel int

const (
	// SecurityLevelSoftware keys live in process memory or in a file
	// protected by a passphrase.
	SecurityLevelSoftware SecurityLevel = iota

	// SecurityLevelOS keys live in the operating system credential store.
	SecurityLevelOS

	// SecurityLevelHardware keys never leave a hardware-backed store.
	SecurityLevelHardware
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityLevelHardware:
		return "hardware"
	case SecurityLevelOS:
		return "os"
	default:
		return "software"
	}
}

// Backend is the secure key store capability consumed by [Provider].
type Backend interface {
	// Name returns a short backend name for logs ("memory", "keyring", "file").
	Name() string

	// SecurityLevel reports where the backend keeps key material.
	SecurityLevel() SecurityLevel

	// GenerateKey creates a new random 256-bit key under id. Generation and
	// storage are one step: the key is never observable before it is stored.
	// Returns [ErrKeyExists] when id is already taken; an existing key is
	// never overwritten.
	GenerateKey(ctx context.Context, id string) error

	// LoadKey resolves id into a sealed enclave. Returns [ErrKeyNotFound]
	// when no key is stored under id.
	LoadKey(ctx context.Context, id string) (*memguard.Enclave, error)

	// DeleteKey removes the key stored under id. Deleting a missing key is
	// not an error.
	DeleteKey(ctx context.Context, id string) error
}
