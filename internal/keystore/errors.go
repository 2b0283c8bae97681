// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keystore

import "errors"

var (
	// ErrKeyNotFound is returned by a backend when no key is stored under
	// the requested id.
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyExists is returned by GenerateKey when the id is already taken.
	ErrKeyExists = errors.New("key already exists")

	// ErrKeyAccess is returned by [Provider] for every failure to obtain the
	// master key. The vault treats it as "vault unavailable".
	ErrKeyAccess = errors.New("key access failed")

	// ErrKeyStoreUnavailable is returned when the platform key store cannot
	// be opened or reached.
	ErrKeyStoreUnavailable = errors.New("secure key store unavailable")

	// ErrInvalidKeyID is returned for ids that cannot be stored safely.
	ErrInvalidKeyID = errors.New("invalid key id")

	// ErrCorruptedKey is returned when stored key material has an unexpected
	// shape or cannot be unwrapped.
	ErrCorruptedKey = errors.New("stored key is corrupted or passphrase is wrong")

	// ErrUnknownBackend is returned by [NewBackend] for unsupported names.
	ErrUnknownBackend = errors.New("unknown key backend")
)
