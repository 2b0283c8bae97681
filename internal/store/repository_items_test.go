// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/models"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:                 db,
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             logger.Nop(),
	}
}

func newTestRepo(t *testing.T, db *sql.DB) ItemStore {
	t.Helper()
	return NewSQLiteItemStore(newDBFromSQL(db), logger.Nop())
}

var itemColumns = []string{"id", "title", "category", "envelope", "created_at", "updated_at"}

var errBusy = sqlite3.Error{Code: sqlite3.ErrBusy}

// ── Create ────────────────────────────────────────────────────────────────────

func TestSQLiteItemStore_Create_StoresUnixNanos(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)
	item := testItem("a", models.CategoryNote, time.Second)

	mock.ExpectExec(regexp.QuoteMeta(insertVaultItem)).
		WithArgs("a", item.Title, "note", item.Envelope, item.CreatedAt.UnixNano(), item.UpdatedAt.UnixNano()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteItemStore_Create_DuplicateID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta(insertVaultItem)).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey})

	err := repo.Create(context.Background(), testItem("a", models.CategoryNote, 0))
	assert.ErrorIs(t, err, ErrItemAlreadyExists)
}

func TestSQLiteItemStore_Create_RetriesBusy(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta(insertVaultItem)).WillReturnError(errBusy)
	mock.ExpectExec(regexp.QuoteMeta(insertVaultItem)).WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), testItem("a", models.CategoryNote, 0)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteItemStore_Create_GivesUpAfterAttempts(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	for range writeAttempts {
		mock.ExpectExec(regexp.QuoteMeta(insertVaultItem)).WillReturnError(errBusy)
	}

	err := repo.Create(context.Background(), testItem("a", models.CategoryNote, 0))
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteItemStore_Create_NonRetryable(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta(insertVaultItem)).WillReturnError(errors.New("disk I/O error"))

	err := repo.Create(context.Background(), testItem("a", models.CategoryNote, 0))
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Read ──────────────────────────────────────────────────────────────────────

func TestSQLiteItemStore_Read(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)
	item := testItem("a", models.CategoryCard, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(getVaultItem)).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow("a", item.Title, "card", item.Envelope, item.CreatedAt.UnixNano(), item.UpdatedAt.UnixNano()))

	got, err := repo.Read(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestSQLiteItemStore_Read_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta(getVaultItem)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(itemColumns))

	_, err := repo.Read(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSQLiteItemStore_Read_QueryError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta(getVaultItem)).WillReturnError(errors.New("boom"))

	_, err := repo.Read(context.Background(), "a")
	assert.ErrorIs(t, err, ErrScanningRow)
}

// ── Update ────────────────────────────────────────────────────────────────────

func TestSQLiteItemStore_Update_SingleStatement(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)
	item := testItem("a", models.CategoryNote, time.Second)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE vault_items SET category = ?, envelope = ?, title = ?, updated_at = ? WHERE id = ?")).
		WithArgs("note", item.Envelope, item.Title, item.UpdatedAt.UnixNano(), "a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteItemStore_Update_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec("UPDATE vault_items").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), testItem("a", models.CategoryNote, 0))
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSQLiteItemStore_Update_ExecError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec("UPDATE vault_items").WillReturnError(errors.New("boom"))

	err := repo.Update(context.Background(), testItem("a", models.CategoryNote, 0))
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

// ── Delete / DeleteAll ────────────────────────────────────────────────────────

func TestSQLiteItemStore_Delete_Missing(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta(deleteVaultItem)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "missing"))
}

func TestSQLiteItemStore_DeleteAll_Error(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta(deleteAllVaultItems)).WillReturnError(errors.New("boom"))

	assert.ErrorIs(t, repo.DeleteAll(context.Background()), ErrExecutingStatement)
}

// ── ListByCategory ────────────────────────────────────────────────────────────

func TestSQLiteItemStore_List_QueryError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectQuery("SELECT (.+) FROM vault_items").WillReturnError(errors.New("boom"))

	_, err := repo.ListByCategory(context.Background(), models.CategoryAll)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestSQLiteItemStore_List_ScanError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectQuery("SELECT (.+) FROM vault_items").
		WithArgs("note").
		WillReturnRows(sqlmock.NewRows(itemColumns).AddRow("a", "t", "note", "e", "not-a-number", 1))

	_, err := repo.ListByCategory(context.Background(), models.CategoryNote)
	assert.ErrorIs(t, err, ErrScanningRows)
}

// ── classifier ────────────────────────────────────────────────────────────────

func TestSQLiteErrorClassifier(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	assert.Equal(t, Retryable, c.Classify(errBusy))
	assert.Equal(t, Retryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.Equal(t, NonRetryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.Equal(t, NonRetryable, c.Classify(errors.New("plain")))
	assert.Equal(t, NonRetryable, c.Classify(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	assert.False(t, isUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}))
	assert.False(t, isUniqueViolation(errors.New("plain")))
}
