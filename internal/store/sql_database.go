// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/migrations"
)

const (
	writeAttempts = 3
	writeBackoff  = 50 * time.Millisecond
)

// DB wraps a *sql.DB with an error classifier used to retry writes that
// lost a lock race.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// withRetry runs fn until it succeeds, returns a non-retryable error, or
// writeAttempts is exhausted.
func (db *DB) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		db.logger.Warn().
			Err(err).
			Str("func", "DB.withRetry").
			Int("attempt", attempt).
			Msg("database is busy, retrying")

		select {
		case <-ctx.Done():
			return err
		case <-time.After(writeBackoff * time.Duration(attempt)):
		}
	}
	return err
}
