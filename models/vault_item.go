// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// VaultItem is a single secret record as it is persisted by the item store.
//
// Only Envelope carries confidential content; it is the base64 AES-256-GCM
// envelope produced by the encryption engine. Title and Category are plain
// display metadata.
type VaultItem struct {
	// ID is the immutable, never-reused record identifier (UUIDv7).
	ID string `json:"id"`

	// Title is the plaintext display label.
	Title string `json:"title"`

	// Category is the filtering tag of the record.
	Category Category `json:"category"`

	// Envelope is base64(nonce || ciphertext || tag) of the record body.
	Envelope string `json:"envelope"`

	// CreatedAt is set once when the record is added.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on every content or metadata change.
	UpdatedAt time.Time `json:"updated_at"`
}

// VaultItemMeta is the listing view of a [VaultItem]. It never carries the
// envelope, so list consumers cannot accidentally touch ciphertext.
type VaultItemMeta struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meta returns the metadata projection of the item.
func (v VaultItem) Meta() VaultItemMeta {
	return VaultItemMeta{
		ID:        v.ID,
		Title:     v.Title,
		Category:  v.Category,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// IntegrityReport summarises a full decryption pass over the vault.
type IntegrityReport struct {
	// Checked is the number of records that were inspected.
	Checked int `json:"checked"`

	// Unreadable lists the records whose envelopes could not be decrypted.
	// Such records are kept in the store untouched.
	Unreadable []VaultItemMeta `json:"unreadable,omitempty"`
}

// OK reports whether every inspected record decrypted successfully.
func (r IntegrityReport) OK() bool {
	return len(r.Unreadable) == 0
}
