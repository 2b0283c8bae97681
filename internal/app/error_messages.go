// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer messages used across the
// vault command surface.
//
// All Msg* constants are human-readable strings printed to the terminal to
// describe the outcome of an operation. Keeping them in one place ensures
// consistent wording throughout the CLI.
package app

import (
	"errors"

	"github.com/MKhiriev/go-vault-keeper/internal/keystore"
	"github.com/MKhiriev/go-vault-keeper/internal/vault"
)

const (
	// MsgVaultUnavailable is shown when the secure key store cannot be
	// reached or the master key cannot be created or loaded. Nothing is ever
	// stored unencrypted in that state.
	MsgVaultUnavailable = "vault unavailable: the secure key store could not be accessed"

	// MsgEncryptionFailed is shown when a body could not be encrypted.
	// Nothing was stored.
	MsgEncryptionFailed = "encryption failed, nothing was stored"

	// MsgItemNotFound is shown when no record has the requested id.
	MsgItemNotFound = "item not found"

	// MsgItemUnavailable is shown when an item body cannot be returned,
	// either because it does not exist or because it cannot be decrypted.
	MsgItemUnavailable = "item not found or unreadable"

	// MsgItemUnreadable marks a listed record whose envelope cannot be
	// decrypted. The record is kept.
	MsgItemUnreadable = "unreadable"

	// MsgInvalidDataProvided is shown when a title or category is rejected.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgStorageFailed is shown when the item store fails.
	MsgStorageFailed = "vault storage failed"

	// MsgInternalError is shown for any other failure.
	MsgInternalError = "internal error"

	// MsgClearNotConfirmed is shown when clear is run without confirmation.
	MsgClearNotConfirmed = "refusing to delete every item without --yes"
)

// UserMessage renders err for the terminal. Vault error kinds get their
// fixed wording; validation failures keep their detail.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, vault.ErrInvalidItem):
		var vErr *vault.Error
		if errors.As(err, &vErr) && vErr.Cause() != nil {
			return MsgInvalidDataProvided + ": " + vErr.Cause().Error()
		}
		return MsgInvalidDataProvided
	case errors.Is(err, vault.ErrKeyAccess), errors.Is(err, keystore.ErrKeyAccess):
		return MsgVaultUnavailable
	case errors.Is(err, vault.ErrEncryption):
		return MsgEncryptionFailed
	case errors.Is(err, vault.ErrItemNotFound):
		return MsgItemNotFound
	case errors.Is(err, vault.ErrStorage):
		return MsgStorageFailed
	default:
		return err.Error()
	}
}
