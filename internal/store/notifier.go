// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// notifier fans out "something changed" signals to every live query.
//
// Each subscriber owns a one-slot channel; a burst of changes collapses
// into a single pending signal, so writers never block on slow readers.
type notifier struct {
	mu     sync.Mutex
	subs   map[uint64]chan struct{}
	nextID uint64
	closed bool
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[uint64]chan struct{})}
}

// subscribe returns a signal channel and a function that releases it.
// ok is false once the notifier is closed.
func (n *notifier) subscribe() (signal <-chan struct{}, cancel func(), ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, func() {}, false
	}

	id := n.nextID
	n.nextID++
	ch := make(chan struct{}, 1)
	n.subs[id] = ch

	cancel = func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, found := n.subs[id]; found {
			delete(n.subs, id)
			close(sub)
		}
	}
	return ch, cancel, true
}

func (n *notifier) notify() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// close ends every subscription.
func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}

// liveQuery implements [ItemStore.Watch] on top of a one-shot list function.
func liveQuery(
	ctx context.Context,
	hub *notifier,
	category models.Category,
	list func(ctx context.Context, category models.Category) ([]models.VaultItem, error),
	fallback *logger.Logger,
) (<-chan []models.VaultItem, error) {
	signal, cancel, ok := hub.subscribe()
	if !ok {
		return nil, ErrStoreClosed
	}

	// Subscribe first so no change between the first read and the loop is
	// missed.
	items, err := list(ctx, category)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan []models.VaultItem)
	go func() {
		defer close(out)
		defer cancel()

		log := logger.FromContextOr(ctx, fallback)
		pending := true
		for {
			var send chan<- []models.VaultItem
			if pending {
				send = out
			}

			select {
			case <-ctx.Done():
				return
			case send <- items:
				pending = false
			case _, open := <-signal:
				if !open {
					return
				}
				next, err := list(ctx, category)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Err(err).
						Str("func", "store.liveQuery").
						Str("category", category.String()).
						Msg("failed to refresh live query")
					continue
				}
				items, pending = next, true
			}
		}
	}()

	return out, nil
}
