// Package memory is a process-local ports.Store
package memory

import (
	"context"
	"errors"
	"iter"
	"maps"
	"slices"
	"sync"

	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

// Store implements ports.Store with sorted in-memory maps
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
	closed      bool
}

// Ensure Store implements ports.Store
var _ ports.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{collections: make(map[string]map[string][]byte)}
}

// Collection returns the named namespace, creating it on first write
func (s *Store) Collection(name string) ports.Collection {
	return &collection{store: s, name: name}
}

// Close marks the store closed; later operations fail with ErrStorageIO
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var errClosed = errors.New("store is closed")

type collection struct {
	store *Store
	name  string
}

// Ensure collection implements ports.Collection
var _ ports.Collection = (*collection)(nil)

func (c *collection) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	if c.store.closed {
		return nil, &domain.StorageError{Op: "get", Collection: c.name, Key: key, Err: errClosed}
	}
	v, ok := c.store.collections[c.name][key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(v), nil
}

func (c *collection) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.store.closed {
		return &domain.StorageError{Op: "put", Collection: c.name, Key: key, Err: errClosed}
	}
	col, ok := c.store.collections[c.name]
	if !ok {
		col = make(map[string][]byte)
		c.store.collections[c.name] = col
	}
	col[key] = slices.Clone(value)
	return nil
}

func (c *collection) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.store.closed {
		return &domain.StorageError{Op: "delete", Collection: c.name, Key: key, Err: errClosed}
	}
	delete(c.store.collections[c.name], key)
	return nil
}

func (c *collection) BatchDelete(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.store.closed {
		return &domain.StorageError{Op: "batch delete", Collection: c.name, Err: errClosed}
	}
	col := c.store.collections[c.name]
	for _, k := range keys {
		delete(col, k)
	}
	return nil
}

// Scan yields a point-in-time copy of the collection, so callers may write
// to the store while iterating.
func (c *collection) Scan(ctx context.Context) iter.Seq2[ports.Entry, error] {
	return func(yield func(ports.Entry, error) bool) {
		c.store.mu.RLock()
		if c.store.closed {
			c.store.mu.RUnlock()
			yield(ports.Entry{}, &domain.StorageError{Op: "scan", Collection: c.name, Err: errClosed})
			return
		}
		col := c.store.collections[c.name]
		keys := slices.Sorted(maps.Keys(col))
		entries := make([]ports.Entry, len(keys))
		for i, k := range keys {
			entries[i] = ports.Entry{Key: k, Value: slices.Clone(col[k])}
		}
		c.store.mu.RUnlock()

		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				yield(ports.Entry{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}
