// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// sqliteItemStore is the [ItemStore] backed by the vault_items table.
// Timestamps are stored as UTC unix nanoseconds so ordering and the
// strictly increasing updated_at survive the round trip exactly.
type sqliteItemStore struct {
	*DB
	hub    *notifier
	logger *logger.Logger
}

// NewSQLiteItemStore wraps a migrated database.
func NewSQLiteItemStore(db *DB, logger *logger.Logger) ItemStore {
	return &sqliteItemStore{
		DB:     db,
		hub:    newNotifier(),
		logger: logger,
	}
}

func (s *sqliteItemStore) Create(ctx context.Context, item models.VaultItem) error {
	log := logger.FromContextOr(ctx, s.logger)

	err := s.withRetry(ctx, func() error {
		_, err := s.DB.ExecContext(ctx, insertVaultItem,
			item.ID,
			item.Title,
			string(item.Category),
			item.Envelope,
			item.CreatedAt.UnixNano(),
			item.UpdatedAt.UnixNano(),
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrItemAlreadyExists
		}
		log.Err(err).
			Str("func", "sqliteItemStore.Create").
			Str("id", item.ID).
			Msg("failed to insert vault item")
		return fmt.Errorf("%w: insert vault item: %w", ErrExecutingStatement, err)
	}

	s.hub.notify()
	return nil
}

func (s *sqliteItemStore) Read(ctx context.Context, id string) (models.VaultItem, error) {
	log := logger.FromContextOr(ctx, s.logger)

	item, err := scanVaultItem(s.DB.QueryRowContext(ctx, getVaultItem, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VaultItem{}, ErrItemNotFound
		}
		log.Err(err).
			Str("func", "sqliteItemStore.Read").
			Str("id", id).
			Msg("failed to read vault item")
		return models.VaultItem{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return item, nil
}

func (s *sqliteItemStore) Update(ctx context.Context, item models.VaultItem) error {
	log := logger.FromContextOr(ctx, s.logger)

	query, args, err := buildUpdateItemQuery(item)
	if err != nil {
		return err
	}

	var affected int64
	err = s.withRetry(ctx, func() error {
		res, err := s.DB.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "sqliteItemStore.Update").
			Str("id", item.ID).
			Msg("failed to update vault item")
		return fmt.Errorf("%w: update vault item: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	s.hub.notify()
	return nil
}

func (s *sqliteItemStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOr(ctx, s.logger)

	var affected int64
	err := s.withRetry(ctx, func() error {
		res, err := s.DB.ExecContext(ctx, deleteVaultItem, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "sqliteItemStore.Delete").
			Str("id", id).
			Msg("failed to delete vault item")
		return fmt.Errorf("%w: delete vault item: %w", ErrExecutingStatement, err)
	}

	if affected > 0 {
		s.hub.notify()
	}
	return nil
}

func (s *sqliteItemStore) DeleteAll(ctx context.Context) error {
	log := logger.FromContextOr(ctx, s.logger)

	err := s.withRetry(ctx, func() error {
		_, err := s.DB.ExecContext(ctx, deleteAllVaultItems)
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "sqliteItemStore.DeleteAll").
			Msg("failed to delete all vault items")
		return fmt.Errorf("%w: delete all vault items: %w", ErrExecutingStatement, err)
	}

	s.hub.notify()
	return nil
}

func (s *sqliteItemStore) ListByCategory(ctx context.Context, category models.Category) ([]models.VaultItem, error) {
	log := logger.FromContextOr(ctx, s.logger)

	query, args, err := buildListItemsQuery(category)
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteItemStore.ListByCategory").
			Str("category", category.String()).
			Msg("failed to list vault items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.VaultItem, 0)
	for rows.Next() {
		item, err := scanVaultItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}

func (s *sqliteItemStore) Watch(ctx context.Context, category models.Category) (<-chan []models.VaultItem, error) {
	return liveQuery(ctx, s.hub, category, s.ListByCategory, s.logger)
}

func (s *sqliteItemStore) Close() error {
	s.hub.close()
	return s.DB.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVaultItem(row rowScanner) (models.VaultItem, error) {
	var (
		item                 models.VaultItem
		category             string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&item.ID, &item.Title, &category, &item.Envelope, &createdAt, &updatedAt); err != nil {
		return models.VaultItem{}, err
	}
	item.Category = models.Category(category)
	item.CreatedAt = time.Unix(0, createdAt).UTC()
	item.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return item, nil
}
