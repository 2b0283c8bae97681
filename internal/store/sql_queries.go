// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-vault-keeper/models"
)

const vaultItemsTable = "vault_items"

var vaultItemColumns = []string{
	"id",
	"title",
	"category",
	"envelope",
	"created_at",
	"updated_at",
}

const (
	insertVaultItem = `INSERT INTO vault_items (id, title, category, envelope, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?);`

	getVaultItem = `SELECT id, title, category, envelope, created_at, updated_at
		FROM vault_items
		WHERE id = ?;`

	deleteVaultItem = `DELETE FROM vault_items
		WHERE id = ?;`

	deleteAllVaultItems = `DELETE FROM vault_items;`
)

// sqlite uses "?" placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// buildListItemsQuery selects every record in category, newest change
// first. [models.CategoryAll] drops the filter.
func buildListItemsQuery(category models.Category) (string, []any, error) {
	query := psql.
		Select(vaultItemColumns...).
		From(vaultItemsTable).
		OrderBy("updated_at DESC", "id ASC")

	if category != models.CategoryAll {
		query = query.Where(sq.Eq{"category": string(category)})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlStr, args, nil
}

// buildUpdateItemQuery rewrites every mutable column of one record in a
// single statement. created_at is not part of the SET list.
func buildUpdateItemQuery(item models.VaultItem) (string, []any, error) {
	sqlStr, args, err := psql.
		Update(vaultItemsTable).
		SetMap(sq.Eq{
			"title":      item.Title,
			"category":   string(item.Category),
			"envelope":   item.Envelope,
			"updated_at": item.UpdatedAt.UnixNano(),
		}).
		Where(sq.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlStr, args, nil
}
