// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validVaultItem() models.VaultItem {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return models.VaultItem{
		ID:        "0190a3c2-0000-7000-8000-000000000001",
		Title:     "Bank PIN",
		Category:  models.CategoryNote,
		Envelope:  "ZW52ZWxvcGU=",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ---------------------------------------------------------------------------
// TestValidate_Dispatch
// ---------------------------------------------------------------------------

func TestNewVaultItemValidator(t *testing.T) {
	require.NotNil(t, NewVaultItemValidator())
}

func TestValidate_Dispatch(t *testing.T) {
	v := NewVaultItemValidator()
	ctx := context.Background()
	item := validVaultItem()

	assert.NoError(t, v.Validate(ctx, item))
	assert.NoError(t, v.Validate(ctx, &item))
	assert.ErrorIs(t, v.Validate(ctx, (*models.VaultItem)(nil)), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(ctx, "string"), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(ctx, item, "unknown"), ErrUnknownField)
}

// ---------------------------------------------------------------------------
// TestValidate_VaultItem
// ---------------------------------------------------------------------------

func TestValidate_VaultItem(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(item *models.VaultItem)
		fields  []string
		wantErr error
	}{
		{name: "valid", mutate: func(*models.VaultItem) {}},
		{name: "empty id", mutate: func(i *models.VaultItem) { i.ID = " " }, wantErr: ErrInvalidID},
		{name: "empty title", mutate: func(i *models.VaultItem) { i.Title = "" }, wantErr: ErrEmptyTitle},
		{name: "blank title", mutate: func(i *models.VaultItem) { i.Title = " \t" }, wantErr: ErrEmptyTitle},
		{name: "title at limit", mutate: func(i *models.VaultItem) { i.Title = strings.Repeat("ж", MaxTitleLength) }},
		{name: "title over limit", mutate: func(i *models.VaultItem) { i.Title = strings.Repeat("a", MaxTitleLength+1) }, wantErr: ErrTitleTooLong},
		{name: "title with newline", mutate: func(i *models.VaultItem) { i.Title = "a\nb" }, wantErr: ErrInvalidTitle},
		{name: "title invalid utf8", mutate: func(i *models.VaultItem) { i.Title = "a\xffb" }, wantErr: ErrInvalidTitle},
		{name: "unknown category", mutate: func(i *models.VaultItem) { i.Category = "crypto" }, wantErr: ErrInvalidCategory},
		{name: "all is not a category", mutate: func(i *models.VaultItem) { i.Category = models.CategoryAll }, wantErr: ErrInvalidCategory},
		{name: "empty envelope", mutate: func(i *models.VaultItem) { i.Envelope = "" }, wantErr: ErrEmptyEnvelope},
		{name: "zero created", mutate: func(i *models.VaultItem) { i.CreatedAt = time.Time{} }, wantErr: ErrInvalidTimestamps},
		{name: "updated before created", mutate: func(i *models.VaultItem) { i.UpdatedAt = i.CreatedAt.Add(-time.Second) }, wantErr: ErrInvalidTimestamps},
		{
			name:   "scoped fields skip envelope",
			mutate: func(i *models.VaultItem) { i.Envelope = ""; i.ID = "" },
			fields: []string{FieldTitle, FieldCategory},
		},
	}

	v := NewVaultItemValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validVaultItem()
			tt.mutate(&item)

			err := v.Validate(context.Background(), item, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
