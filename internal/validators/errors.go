// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidID         = errors.New("invalid vault item id")
	ErrEmptyTitle        = errors.New("title is required")
	ErrTitleTooLong      = errors.New("title is too long")
	ErrInvalidTitle      = errors.New("title must be valid UTF-8 without control characters")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrEmptyEnvelope     = errors.New("envelope is required")
	ErrInvalidTimestamps = errors.New("invalid timestamps")
)
