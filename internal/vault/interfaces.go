// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault is the plaintext-in/plaintext-out CRUD surface over the
// encrypted item store.
//
// A [Repository] obtains the master key from a [KeyProvider], seals record
// bodies with the encryption engine and hands only envelopes to the item
// store. Callers never see key material or envelopes; they get decrypted
// bodies back from [Repository.GetDecryptedBody] and metadata everywhere
// else.
package vault

import (
	"context"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/vault_mock.go -package=mock

// KeyProvider hands out the master key, creating it on first use.
// *keystore.Provider is the production implementation.
type KeyProvider interface {
	GetOrCreateKey(ctx context.Context) (crypto.KeyHandle, error)
}

// IDGenerator issues never-reused record identifiers.
type IDGenerator interface {
	Generate() string
}

// Repository is the vault's CRUD contract. Every error it returns is a
// [*Error] whose kind is one of the sentinels in errors.go.
type Repository interface {
	// List returns a live view of record metadata in category
	// ([models.CategoryAll] for every record). A fresh listing is emitted
	// after each change; bodies are never decrypted. The channel closes when
	// ctx ends.
	List(ctx context.Context, category models.Category) (<-chan []models.VaultItemMeta, error)

	// Snapshot returns the current metadata listing once.
	Snapshot(ctx context.Context, category models.Category) ([]models.VaultItemMeta, error)

	// Add encrypts body and stores a new record. Returns the new id. Nothing
	// is stored if key access or encryption fails.
	Add(ctx context.Context, title, body string, category models.Category) (string, error)

	// GetDecryptedBody returns the decrypted body of a record. ok is false
	// when the record does not exist and also when it cannot be decrypted.
	GetDecryptedBody(ctx context.Context, id string) (body string, ok bool)

	// Update re-encrypts body under a fresh nonce and replaces title,
	// category and envelope of an existing record in one write. On any
	// failure the stored record is left exactly as it was.
	Update(ctx context.Context, id, title, body string, category models.Category) error

	// UpdateMetadata changes title and category and keeps the envelope.
	UpdateMetadata(ctx context.Context, id, title string, category models.Category) error

	// Delete removes one record. Missing ids are not an error.
	Delete(ctx context.Context, id string) error

	// ClearAll removes every record.
	ClearAll(ctx context.Context) error

	// Verify tries to decrypt every record and reports the ones that fail.
	// Unreadable records are never modified or deleted.
	Verify(ctx context.Context) (models.IntegrityReport, error)
}
