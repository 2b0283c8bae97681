// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/keystore"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/vault"
	"github.com/MKhiriev/go-vault-keeper/internal/workers"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// App owns the vault runtime of one process: the key provider, the item
// store and the repository built on top of them.
type App struct {
	cfg    *config.StructuredConfig
	keys   *keystore.Provider
	items  store.ItemStore
	vault  vault.Repository
	logger *logger.Logger
}

// NewApp opens the key store and item store selected by cfg and wires the
// vault repository over them. The master key is not touched until the first
// operation that needs it.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	backend, err := keystore.NewBackend(cfg.Vault, log)
	if err != nil {
		return nil, fmt.Errorf("open key store: %w", err)
	}

	items, err := store.NewItemStore(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("open item store: %w", err)
	}

	log.Debug().
		Str("func", "client.NewApp").
		Str("key_backend", backend.Name()).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("vault runtime ready")

	return newApp(cfg, backend, items, log), nil
}

func newApp(cfg *config.StructuredConfig, backend keystore.Backend, items store.ItemStore, log *logger.Logger) *App {
	keys := keystore.NewProvider(backend, cfg.Vault.KeyID, log)

	return &App{
		cfg:    cfg,
		keys:   keys,
		items:  items,
		vault:  vault.NewRepository(keys, crypto.NewEngine(), items, log),
		logger: log,
	}
}

// Vault returns the repository.
func (a *App) Vault() vault.Repository {
	return a.vault
}

// Keys returns the master key provider.
func (a *App) Keys() *keystore.Provider {
	return a.keys
}

// Workers builds the background workers of a long-running session: the
// integrity audit plus any extra workers. onReport may be nil.
func (a *App) Workers(onReport func(models.IntegrityReport), extra ...workers.Worker) *workers.Workers {
	audit := workers.NewIntegrityAuditWorker(a.vault, a.cfg.Workers.AuditInterval, a.logger, onReport)
	return workers.NewWorkers(append([]workers.Worker{audit}, extra...)...)
}

// Close releases the item store.
func (a *App) Close() error {
	if err := a.items.Close(); err != nil {
		return fmt.Errorf("close item store: %w", err)
	}
	return nil
}
