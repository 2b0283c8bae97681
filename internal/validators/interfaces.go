// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks vault records before they are encrypted or
// written. Only plaintext metadata (id, title, category, timestamps) and
// the presence of an envelope are checked; envelopes are never opened here.
//
// A [Validator] may be scoped to named fields, so the repository can check
// caller input (title, category) before touching the key store and the
// complete record right before it is persisted.
package validators

import "context"

// Validator checks obj and returns the first rule it breaks. When fields
// are given only those fields are checked; unknown field names fail with
// [ErrUnknownField] and unsupported values with [ErrUnsupportedType].
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
