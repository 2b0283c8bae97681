// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "password", want: CategoryPassword},
		{in: " Note ", want: CategoryNote},
		{in: "CARD", want: CategoryCard},
		{in: "other", want: CategoryOther},
		{in: "", wantErr: true},
		{in: "wallet", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, CategoryAll.Valid())
	assert.False(t, Category("Password").Valid())
}

func TestVaultItem_Meta(t *testing.T) {
	now := time.Now().UTC()
	item := VaultItem{
		ID:        "id",
		Title:     "title",
		Category:  CategoryCard,
		Envelope:  "sealed",
		CreatedAt: now,
		UpdatedAt: now.Add(time.Second),
	}

	assert.Equal(t, VaultItemMeta{
		ID:        "id",
		Title:     "title",
		Category:  CategoryCard,
		CreatedAt: now,
		UpdatedAt: now.Add(time.Second),
	}, item.Meta())
}

func TestIntegrityReport_OK(t *testing.T) {
	assert.True(t, IntegrityReport{Checked: 3}.OK())
	assert.False(t, IntegrityReport{Checked: 3, Unreadable: []VaultItemMeta{{ID: "x"}}}.OK())
}
