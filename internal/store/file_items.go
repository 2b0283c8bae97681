// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/models"
)

const (
	fileStoreVersion   = 1
	fileStoreLockRetry = 10 * time.Millisecond
	fileStoreLockWait  = 10 * time.Second
)

// fileItemStore mirrors the whole record set to a JSON file. The file is
// replaced atomically via rename, so readers never lock it. Writers hold a
// lock file next to it and reload the set before changing it, so processes
// sharing the file never drop each other's records. An in-memory change is
// rolled back if the file cannot be written.
type fileItemStore struct {
	path     string
	inMemory bool
	lock     *flock.Flock

	mu     sync.Mutex
	items  map[string]models.VaultItem
	hub    *notifier
	logger *logger.Logger
}

type filePersistedState struct {
	Version int                         `json:"version"`
	Items   map[string]models.VaultItem `json:"items"`
}

// NewFileItemStore opens (or lazily creates) the JSON store at path.
// An empty path or ":memory:" keeps everything in process memory.
func NewFileItemStore(path string, logger *logger.Logger) (ItemStore, error) {
	if path == "" {
		path = memoryDSN
	}

	s := &fileItemStore{
		path:     path,
		inMemory: path == memoryDSN,
		items:    make(map[string]models.VaultItem),
		hub:      newNotifier(),
		logger:   logger,
	}
	if !s.inMemory {
		s.lock = flock.New(path + ".lock")
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load replaces the in-memory set with the file contents. Must be called
// with s.mu held for writing.
func (s *fileItemStore) load() error {
	if s.inMemory {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.items = make(map[string]models.VaultItem)
			return nil
		}
		return fmt.Errorf("read item store file: %w", err)
	}

	var st filePersistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode item store file: %w", err)
	}
	if st.Version != fileStoreVersion {
		return fmt.Errorf("unsupported item store file version %d", st.Version)
	}
	if st.Items == nil {
		st.Items = make(map[string]models.VaultItem)
	}
	s.items = st.Items

	return nil
}

// lockFile takes the cross-process write lock. The returned func releases it.
func (s *fileItemStore) lockFile(ctx context.Context) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("create item store dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, fileStoreLockWait)
	defer cancel()

	locked, err := s.lock.TryLockContext(ctx, fileStoreLockRetry)
	if err != nil {
		return nil, fmt.Errorf("lock item store file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("lock item store file: %s is held", s.lock.Path())
	}

	return func() { _ = s.lock.Unlock() }, nil
}

// persist must be called with s.mu held for writing.
func (s *fileItemStore) persist() error {
	if s.inMemory {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create item store dir: %w", err)
	}

	payload, err := json.MarshalIndent(filePersistedState{Version: fileStoreVersion, Items: s.items}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode item store: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-items-*")
	if err != nil {
		return fmt.Errorf("create temp item store file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err = tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write item store file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync item store file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close item store file: %w", err)
	}
	if err = os.Chmod(tmpPath, 0o600); err != nil {
		return fmt.Errorf("chmod item store file: %w", err)
	}
	if err = os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace item store file: %w", err)
	}

	return nil
}

// mutate applies change to the freshly loaded set under both locks,
// persists, and restores the previous map if persisting fails.
func (s *fileItemStore) mutate(ctx context.Context, op string, change func(items map[string]models.VaultItem) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockFile(ctx)
	if err != nil {
		logger.FromContextOr(ctx, s.logger).Err(err).
			Str("func", "fileItemStore."+op).
			Str("path", s.path).
			Msg("failed to lock item store")
		return err
	}
	defer unlock()

	if err = s.load(); err != nil {
		return err
	}

	backup := maps.Clone(s.items)
	changed, err := change(s.items)
	if err != nil || !changed {
		return err
	}

	if err = s.persist(); err != nil {
		s.items = backup
		logger.FromContextOr(ctx, s.logger).Err(err).
			Str("func", "fileItemStore."+op).
			Str("path", s.path).
			Msg("failed to persist item store")
		return err
	}

	s.hub.notify()
	return nil
}

func (s *fileItemStore) Create(ctx context.Context, item models.VaultItem) error {
	return s.mutate(ctx, "Create", func(items map[string]models.VaultItem) (bool, error) {
		if _, exists := items[item.ID]; exists {
			return false, ErrItemAlreadyExists
		}
		items[item.ID] = item
		return true, nil
	})
}

func (s *fileItemStore) Read(_ context.Context, id string) (models.VaultItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return models.VaultItem{}, err
	}

	item, ok := s.items[id]
	if !ok {
		return models.VaultItem{}, ErrItemNotFound
	}
	return item, nil
}

func (s *fileItemStore) Update(ctx context.Context, item models.VaultItem) error {
	return s.mutate(ctx, "Update", func(items map[string]models.VaultItem) (bool, error) {
		current, ok := items[item.ID]
		if !ok {
			return false, ErrItemNotFound
		}
		current.Title = item.Title
		current.Category = item.Category
		current.Envelope = item.Envelope
		current.UpdatedAt = item.UpdatedAt
		items[item.ID] = current
		return true, nil
	})
}

func (s *fileItemStore) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, "Delete", func(items map[string]models.VaultItem) (bool, error) {
		if _, ok := items[id]; !ok {
			return false, nil
		}
		delete(items, id)
		return true, nil
	})
}

func (s *fileItemStore) DeleteAll(ctx context.Context) error {
	return s.mutate(ctx, "DeleteAll", func(items map[string]models.VaultItem) (bool, error) {
		clear(items)
		return true, nil
	})
}

func (s *fileItemStore) ListByCategory(_ context.Context, category models.Category) ([]models.VaultItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	items := make([]models.VaultItem, 0, len(s.items))
	for _, item := range s.items {
		if category == models.CategoryAll || item.Category == category {
			items = append(items, item)
		}
	}

	slices.SortFunc(items, func(a, b models.VaultItem) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return items, nil
}

func (s *fileItemStore) Watch(ctx context.Context, category models.Category) (<-chan []models.VaultItem, error) {
	return liveQuery(ctx, s.hub, category, s.ListByCategory, s.logger)
}

func (s *fileItemStore) Close() error {
	s.hub.close()
	return nil
}
