// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with [errors.Is] on any error returned by a
// [Repository].
var (
	// ErrKeyAccess means the secure key store is unavailable or the master
	// key could not be created or loaded. Treat it as "vault unavailable";
	// never fall back to storing plaintext.
	ErrKeyAccess = errors.New("vault unavailable: key access failed")

	// ErrEncryption means a body could not be encrypted. Nothing was stored.
	ErrEncryption = errors.New("encryption failed")

	// ErrDecryption means an envelope could not be opened.
	ErrDecryption = errors.New("decryption failed")

	// ErrItemNotFound means no record has the requested id.
	ErrItemNotFound = errors.New("vault item not found")

	// ErrInvalidItem means the caller supplied an unusable title or category.
	ErrInvalidItem = errors.New("invalid vault item")

	// ErrStorage means the item store failed.
	ErrStorage = errors.New("vault storage failed")
)

// Error is the single error type returned by [Repository] methods.
//
// Kind is one of the sentinels above. The underlying cause is kept for
// diagnostics but is only unwrapped for [ErrInvalidItem], whose cause is a
// validation message meant for the user; platform and crypto errors stay
// hidden behind their kind.
type Error struct {
	Op   string
	Kind error
	err  error
}

func newError(op string, kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, err: cause}
}

func (e *Error) Error() string {
	if e.Kind == ErrInvalidItem && e.err != nil {
		return fmt.Sprintf("vault %s: %v: %v", e.Op, e.Kind, e.err)
	}
	return fmt.Sprintf("vault %s: %v", e.Op, e.Kind)
}

func (e *Error) Unwrap() []error {
	if e.Kind == ErrInvalidItem && e.err != nil {
		return []error{e.Kind, e.err}
	}
	return []error{e.Kind}
}

// Cause returns the underlying error. It is intended for logs only.
func (e *Error) Cause() error {
	return e.err
}
