// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-vault-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ItemStore is the durable record storage behind the vault. It only ever
// sees envelopes; it never encrypts or decrypts anything.
//
// Every implementation must make single-record writes atomic: a reader sees
// either the old record or the new one, never a mix of both.
type ItemStore interface {
	// Create persists a new record. Returns [ErrItemAlreadyExists] if the id
	// is taken.
	Create(ctx context.Context, item models.VaultItem) error

	// Read returns the record with the given id or [ErrItemNotFound].
	Read(ctx context.Context, id string) (models.VaultItem, error)

	// Update replaces title, category, envelope and updated_at of an
	// existing record in one write. created_at is never touched. Returns
	// [ErrItemNotFound] if no record has item.ID.
	Update(ctx context.Context, item models.VaultItem) error

	// Delete removes one record. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error

	// ListByCategory returns the records in category, newest change first.
	// [models.CategoryAll] selects every record.
	ListByCategory(ctx context.Context, category models.Category) ([]models.VaultItem, error)

	// Watch emits the current ListByCategory result right away and again
	// after every committed change. Intermediate results may be skipped if
	// the reader is slower than the writers, but the last one is always
	// delivered. The channel is closed when ctx ends or the store closes.
	Watch(ctx context.Context, category models.Category) (<-chan []models.VaultItem, error)

	// Close releases the underlying resources and ends every Watch.
	Close() error
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
