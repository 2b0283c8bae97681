// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"errors"
	"time"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/utils"
	"github.com/MKhiriev/go-vault-keeper/internal/validators"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// repository is the default implementation of [Repository].
//
// Once a write has started encrypting it runs on a context detached from
// the caller, so an abandoned add or update either lands completely or not
// at all.
type repository struct {
	keys      KeyProvider
	engine    crypto.Engine
	items     store.ItemStore
	validator validators.Validator
	ids       IDGenerator
	now       func() time.Time
	logger    *logger.Logger
}

// Option customises a repository built by [NewRepository].
type Option func(*repository)

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(r *repository) { r.ids = ids }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *repository) { r.now = now }
}

// NewRepository wires a vault over keys, engine and items.
func NewRepository(keys KeyProvider, engine crypto.Engine, items store.ItemStore, logger *logger.Logger, opts ...Option) Repository {
	r := &repository{
		keys:      keys,
		engine:    engine,
		items:     items,
		validator: validators.NewVaultItemValidator(),
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *repository) List(ctx context.Context, category models.Category) (<-chan []models.VaultItemMeta, error) {
	const op = "list"

	if err := validateFilter(category); err != nil {
		return nil, newError(op, ErrInvalidItem, err)
	}

	src, err := r.items.Watch(ctx, category)
	if err != nil {
		r.logStoreError(ctx, op, "", err)
		return nil, newError(op, ErrStorage, err)
	}

	out := make(chan []models.VaultItemMeta)
	go func() {
		defer close(out)
		for items := range src {
			select {
			case out <- toMeta(items):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (r *repository) Snapshot(ctx context.Context, category models.Category) ([]models.VaultItemMeta, error) {
	const op = "snapshot"

	if err := validateFilter(category); err != nil {
		return nil, newError(op, ErrInvalidItem, err)
	}

	items, err := r.items.ListByCategory(ctx, category)
	if err != nil {
		r.logStoreError(ctx, op, "", err)
		return nil, newError(op, ErrStorage, err)
	}
	return toMeta(items), nil
}

func (r *repository) Add(ctx context.Context, title, body string, category models.Category) (string, error) {
	const op = "add"
	log := r.log(ctx)

	draft := models.VaultItem{Title: title, Category: category}
	if err := r.validator.Validate(ctx, draft, validators.FieldTitle, validators.FieldCategory); err != nil {
		return "", newError(op, ErrInvalidItem, err)
	}

	key, err := r.keys.GetOrCreateKey(ctx)
	if err != nil {
		log.Err(err).Str("func", "repository.Add").Msg("failed to obtain master key")
		return "", newError(op, ErrKeyAccess, err)
	}

	ctx = context.WithoutCancel(ctx)

	envelope, err := r.seal(body, key)
	if err != nil {
		log.Err(err).Str("func", "repository.Add").Msg("failed to encrypt vault item")
		return "", newError(op, ErrEncryption, err)
	}

	now := r.now().UTC()
	item := models.VaultItem{
		ID:        r.ids.Generate(),
		Title:     title,
		Category:  category,
		Envelope:  envelope,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = r.validator.Validate(ctx, item); err != nil {
		return "", newError(op, ErrInvalidItem, err)
	}

	if err = r.items.Create(ctx, item); err != nil {
		r.logStoreError(ctx, op, item.ID, err)
		return "", newError(op, ErrStorage, err)
	}

	log.Debug().Str("func", "repository.Add").Str("id", item.ID).Msg("vault item added")
	return item.ID, nil
}

func (r *repository) GetDecryptedBody(ctx context.Context, id string) (string, bool) {
	log := r.log(ctx)

	item, err := r.items.Read(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrItemNotFound) {
			r.logStoreError(ctx, "get", id, err)
		}
		return "", false
	}

	key, err := r.keys.GetOrCreateKey(ctx)
	if err != nil {
		log.Err(err).Str("func", "repository.GetDecryptedBody").Str("id", id).Msg("failed to obtain master key")
		return "", false
	}

	plain, err := r.engine.Decrypt(item.Envelope, key)
	if err != nil {
		log.Warn().
			Str("func", "repository.GetDecryptedBody").
			Str("id", id).
			Str("reason", decryptReason(err)).
			Msg("vault item is unreadable")
		return "", false
	}
	defer memguard.WipeBytes(plain)

	return string(plain), true
}

func (r *repository) Update(ctx context.Context, id, title, body string, category models.Category) error {
	const op = "update"
	log := r.log(ctx)

	draft := models.VaultItem{ID: id, Title: title, Category: category}
	if err := r.validator.Validate(ctx, draft, validators.FieldID, validators.FieldTitle, validators.FieldCategory); err != nil {
		return newError(op, ErrInvalidItem, err)
	}

	current, err := r.read(ctx, op, id)
	if err != nil {
		return err
	}

	key, err := r.keys.GetOrCreateKey(ctx)
	if err != nil {
		log.Err(err).Str("func", "repository.Update").Str("id", id).Msg("failed to obtain master key")
		return newError(op, ErrKeyAccess, err)
	}

	ctx = context.WithoutCancel(ctx)

	envelope, err := r.seal(body, key)
	if err != nil {
		log.Err(err).Str("func", "repository.Update").Str("id", id).Msg("failed to encrypt vault item")
		return newError(op, ErrEncryption, err)
	}

	next := current
	next.Title = title
	next.Category = category
	next.Envelope = envelope
	next.UpdatedAt = r.nextUpdatedAt(current.UpdatedAt)

	return r.write(ctx, op, next)
}

func (r *repository) UpdateMetadata(ctx context.Context, id, title string, category models.Category) error {
	const op = "update metadata"

	draft := models.VaultItem{ID: id, Title: title, Category: category}
	if err := r.validator.Validate(ctx, draft, validators.FieldID, validators.FieldTitle, validators.FieldCategory); err != nil {
		return newError(op, ErrInvalidItem, err)
	}

	current, err := r.read(ctx, op, id)
	if err != nil {
		return err
	}

	next := current
	next.Title = title
	next.Category = category
	next.UpdatedAt = r.nextUpdatedAt(current.UpdatedAt)

	return r.write(context.WithoutCancel(ctx), op, next)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if err := r.items.Delete(ctx, id); err != nil {
		r.logStoreError(ctx, "delete", id, err)
		return newError("delete", ErrStorage, err)
	}
	return nil
}

func (r *repository) ClearAll(ctx context.Context) error {
	if err := r.items.DeleteAll(ctx); err != nil {
		r.logStoreError(ctx, "clear", "", err)
		return newError("clear", ErrStorage, err)
	}

	r.log(ctx).Info().Str("func", "repository.ClearAll").Msg("vault cleared")
	return nil
}

func (r *repository) Verify(ctx context.Context) (models.IntegrityReport, error) {
	const op = "verify"
	log := r.log(ctx)

	items, err := r.items.ListByCategory(ctx, models.CategoryAll)
	if err != nil {
		r.logStoreError(ctx, op, "", err)
		return models.IntegrityReport{}, newError(op, ErrStorage, err)
	}

	report := models.IntegrityReport{Checked: len(items)}
	if len(items) == 0 {
		return report, nil
	}

	key, err := r.keys.GetOrCreateKey(ctx)
	if err != nil {
		log.Err(err).Str("func", "repository.Verify").Msg("failed to obtain master key")
		return models.IntegrityReport{}, newError(op, ErrKeyAccess, err)
	}

	for _, item := range items {
		if err = ctx.Err(); err != nil {
			return models.IntegrityReport{}, newError(op, ErrStorage, err)
		}

		plain, err := r.engine.Decrypt(item.Envelope, key)
		if err != nil {
			log.Warn().
				Str("func", "repository.Verify").
				Str("id", item.ID).
				Str("reason", decryptReason(err)).
				Msg("vault item is unreadable")
			report.Unreadable = append(report.Unreadable, item.Meta())
			continue
		}
		memguard.WipeBytes(plain)
	}

	return report, nil
}

// seal encrypts body and wipes the temporary plaintext copy.
func (r *repository) seal(body string, key crypto.KeyHandle) (string, error) {
	plain := []byte(body)
	defer memguard.WipeBytes(plain)

	return r.engine.Encrypt(plain, key)
}

func (r *repository) read(ctx context.Context, op, id string) (models.VaultItem, error) {
	item, err := r.items.Read(ctx, id)
	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, store.ErrItemNotFound):
		return models.VaultItem{}, newError(op, ErrItemNotFound, err)
	default:
		r.logStoreError(ctx, op, id, err)
		return models.VaultItem{}, newError(op, ErrStorage, err)
	}
}

func (r *repository) write(ctx context.Context, op string, item models.VaultItem) error {
	err := r.items.Update(ctx, item)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrItemNotFound):
		// deleted between read and write
		return newError(op, ErrItemNotFound, err)
	default:
		r.logStoreError(ctx, op, item.ID, err)
		return newError(op, ErrStorage, err)
	}
}

// nextUpdatedAt returns now, or prev+1ns if the clock has not moved past
// prev, so updated_at strictly increases on every change.
func (r *repository) nextUpdatedAt(prev time.Time) time.Time {
	now := r.now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

func (r *repository) logStoreError(ctx context.Context, op, id string, err error) {
	r.log(ctx).Err(err).
		Str("func", "repository."+op).
		Str("id", id).
		Msg("item store operation failed")
}

func (r *repository) log(ctx context.Context) *logger.Logger {
	return logger.FromContextOr(ctx, r.logger)
}

func decryptReason(err error) string {
	if reason, ok := crypto.DecryptReasonOf(err); ok {
		return string(reason)
	}
	return "unknown"
}

func validateFilter(category models.Category) error {
	if category == models.CategoryAll || category.Valid() {
		return nil
	}
	return validators.ErrInvalidCategory
}

func toMeta(items []models.VaultItem) []models.VaultItemMeta {
	metas := make([]models.VaultItemMeta, 0, len(items))
	for _, item := range items {
		metas = append(metas, item.Meta())
	}
	return metas
}
