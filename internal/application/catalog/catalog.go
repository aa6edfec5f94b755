// Package catalog stores lists and cards as JSON records in a ports.Store
package catalog

import (
	"context"
	"encoding/json"
	"iter"

	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

// Catalog is the typed view of the knowledge base collections
type Catalog struct {
	lists ports.Collection
	cards ports.Collection
}

// New creates a Catalog over store
func New(store ports.Store) *Catalog {
	return &Catalog{
		lists: store.Collection(ports.ListsCollection),
		cards: store.Collection(ports.CardsCollection),
	}
}

// Lists streams every persisted list in key order
func (c *Catalog) Lists(ctx context.Context) iter.Seq2[domain.List, error] {
	return scanRecords[domain.List](ctx, c.lists, ports.ListsCollection)
}

// Cards streams every persisted card in key order
func (c *Catalog) Cards(ctx context.Context) iter.Seq2[domain.Card, error] {
	return scanRecords[domain.Card](ctx, c.cards, ports.CardsCollection)
}

// AllLists collects every persisted list
func (c *Catalog) AllLists(ctx context.Context) ([]domain.List, error) {
	return collect(c.Lists(ctx))
}

// AllCards collects every persisted card
func (c *Catalog) AllCards(ctx context.Context) ([]domain.Card, error) {
	return collect(c.Cards(ctx))
}

// CardsForList collects the persisted cards belonging to listID
func (c *Catalog) CardsForList(ctx context.Context, listID string) ([]domain.Card, error) {
	var out []domain.Card
	for card, err := range c.Cards(ctx) {
		if err != nil {
			return nil, err
		}
		if card.ListID == listID {
			out = append(out, card)
		}
	}
	return out, nil
}

// GetList loads a list by ID, returning domain.ErrNotFound when absent
func (c *Catalog) GetList(ctx context.Context, id string) (domain.List, error) {
	var l domain.List
	err := getRecord(ctx, c.lists, ports.ListsCollection, id, &l)
	return l, err
}

// GetCard loads a card by ID, returning domain.ErrNotFound when absent
func (c *Catalog) GetCard(ctx context.Context, id string) (domain.Card, error) {
	var card domain.Card
	err := getRecord(ctx, c.cards, ports.CardsCollection, id, &card)
	return card, err
}

// PutList writes a list under its ID
func (c *Catalog) PutList(ctx context.Context, l domain.List) error {
	return putRecord(ctx, c.lists, ports.ListsCollection, l.ID, l)
}

// PutCard writes a card under its ID
func (c *Catalog) PutCard(ctx context.Context, card domain.Card) error {
	return putRecord(ctx, c.cards, ports.CardsCollection, card.ID, card)
}

// DeleteList removes a list record. Its cards are not touched.
func (c *Catalog) DeleteList(ctx context.Context, id string) error {
	return c.lists.Delete(ctx, id)
}

// DeleteCards removes the given cards in one batch
func (c *Catalog) DeleteCards(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.cards.BatchDelete(ctx, ids)
}

func scanRecords[T any](ctx context.Context, col ports.Collection, name string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for entry, err := range col.Scan(ctx) {
			var v T
			if err != nil {
				yield(v, err)
				return
			}
			if err := json.Unmarshal(entry.Value, &v); err != nil {
				yield(v, &domain.StorageError{Op: "decode", Collection: name, Key: entry.Key, Err: err})
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

func collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func getRecord(ctx context.Context, col ports.Collection, name, key string, v any) error {
	data, err := col.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &domain.StorageError{Op: "decode", Collection: name, Key: key, Err: err}
	}
	return nil
}

func putRecord(ctx context.Context, col ports.Collection, name, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &domain.StorageError{Op: "encode", Collection: name, Key: key, Err: err}
	}
	return col.Put(ctx, key, data)
}
