// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
)

// NewItemStore initialises the item store selected by cfg.Driver.
//
// For "sqlite" it opens the database at cfg.DSN (creating the file if it
// does not exist yet) and runs pending schema migrations via [DB.Migrate].
// For "file" it opens the JSON store at cfg.DSN.
//
// ":memory:" as DSN keeps either implementation entirely in memory.
func NewItemStore(ctx context.Context, cfg config.Storage, logger *logger.Logger) (ItemStore, error) {
	logger.Debug().Str("driver", cfg.Driver).Msg("creating item store...")

	switch cfg.Driver {
	case config.StorageDriverSQLite:
		db, err := NewConnectSQLite(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}

		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		return NewSQLiteItemStore(db, logger), nil

	case config.StorageDriverFile:
		return NewFileItemStore(cfg.DSN, logger)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
