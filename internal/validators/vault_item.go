// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldID targets the record identifier.
	FieldID = "id"

	// FieldTitle targets the plaintext display label.
	FieldTitle = "title"

	// FieldCategory targets the filtering tag, which must be one of the
	// closed vocabulary.
	FieldCategory = "category"

	// FieldEnvelope targets the encrypted body.
	FieldEnvelope = "envelope"

	// FieldTimestamps targets created_at / updated_at consistency.
	FieldTimestamps = "timestamps"
)

// MaxTitleLength is the longest accepted title, in runes.
const MaxTitleLength = 256

type VaultItemValidator struct {
}

func NewVaultItemValidator() Validator {
	return &VaultItemValidator{}
}

func (v *VaultItemValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.VaultItem:
		return v.validateVaultItem(ctx, value, fields...)
	case *models.VaultItem:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateVaultItem(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *VaultItemValidator) validateVaultItem(_ context.Context, item models.VaultItem, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldTitle, FieldCategory, FieldEnvelope, FieldTimestamps}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if strings.TrimSpace(item.ID) == "" {
				return ErrInvalidID
			}
		case FieldTitle:
			if err := validateTitle(item.Title); err != nil {
				return err
			}
		case FieldCategory:
			if !item.Category.Valid() {
				return ErrInvalidCategory
			}
		case FieldEnvelope:
			if item.Envelope == "" {
				return ErrEmptyEnvelope
			}
		case FieldTimestamps:
			if item.CreatedAt.IsZero() || item.UpdatedAt.Before(item.CreatedAt) {
				return ErrInvalidTimestamps
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if !utf8.ValidString(title) {
		return ErrInvalidTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return ErrInvalidTitle
		}
	}
	return nil
}
