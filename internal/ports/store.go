package ports

import (
	"context"
	"iter"
)

// Collection names used by the knowledge base
const (
	ListsCollection = "lists"
	CardsCollection = "cards"
)

// Entry is a single key/value pair yielded by a scan
type Entry struct {
	Key   string
	Value []byte
}

// Store is an ordered key-value store partitioned into named collections
type Store interface {
	Collection(name string) Collection
	Close() error
}

// Collection is one namespace of a Store
type Collection interface {
	// Get returns domain.ErrNotFound when key is absent
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete of an absent key is not an error
	Delete(ctx context.Context, key string) error
	// BatchDelete removes all keys or none of them
	BatchDelete(ctx context.Context, keys []string) error

	// Scan yields every entry in ascending key order.
	// Each call starts a fresh pass; a stream failure is yielded once as the error
	// and ends the sequence.
	Scan(ctx context.Context) iter.Seq2[Entry, error]
}
