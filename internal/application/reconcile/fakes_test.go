package reconcile

import (
	"context"
	"errors"
	"iter"
	"sync"

	"helpbot/internal/application/catalog"
	"helpbot/internal/adapters/memory"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

type fakeRemote struct {
	mu       sync.Mutex
	lists    []domain.RemoteList
	cards    map[string][]domain.RemoteCard
	listErr  error
	cardErrs map[string]error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		cards:    make(map[string][]domain.RemoteCard),
		cardErrs: make(map[string]error),
	}
}

func (f *fakeRemote) ListBoardLists(ctx context.Context, boardID string) ([]domain.RemoteList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.RemoteList(nil), f.lists...), nil
}

func (f *fakeRemote) ListCards(ctx context.Context, listID string) ([]domain.RemoteCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.cardErrs[listID]; err != nil {
		return nil, err
	}
	return append([]domain.RemoteCard(nil), f.cards[listID]...), nil
}

func (f *fakeRemote) GetCard(ctx context.Context, cardID string) (domain.RemoteCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cards := range f.cards {
		for _, c := range cards {
			if c.ID == cardID {
				return c, nil
			}
		}
	}
	return domain.RemoteCard{}, domain.ErrNotFound
}

// countingStore counts mutations and can fail chosen operations
type countingStore struct {
	ports.Store
	mu     sync.Mutex
	writes int
	fail   map[string]error // "collection/op"
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.NewStore(), fail: make(map[string]error)}
}

func (s *countingStore) Collection(name string) ports.Collection {
	return &countingCollection{Collection: s.Store.Collection(name), store: s, name: name}
}

func (s *countingStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *countingStore) ResetWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = 0
}

func (s *countingStore) FailOn(collection, op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[collection+"/"+op] = err
}

func (s *countingStore) mutate(collection, op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[collection+"/"+op]; err != nil {
		return &domain.StorageError{Op: op, Collection: collection, Err: err}
	}
	s.writes++
	return nil
}

type countingCollection struct {
	ports.Collection
	store *countingStore
	name  string
}

func (c *countingCollection) Put(ctx context.Context, key string, value []byte) error {
	if err := c.store.mutate(c.name, "put"); err != nil {
		return err
	}
	return c.Collection.Put(ctx, key, value)
}

func (c *countingCollection) Delete(ctx context.Context, key string) error {
	if err := c.store.mutate(c.name, "delete"); err != nil {
		return err
	}
	return c.Collection.Delete(ctx, key)
}

func (c *countingCollection) BatchDelete(ctx context.Context, keys []string) error {
	if err := c.store.mutate(c.name, "batch_delete"); err != nil {
		return err
	}
	return c.Collection.BatchDelete(ctx, keys)
}

func (c *countingCollection) Scan(ctx context.Context) iter.Seq2[ports.Entry, error] {
	c.store.mu.Lock()
	err := c.store.fail[c.name+"/scan"]
	c.store.mu.Unlock()
	if err != nil {
		return func(yield func(ports.Entry, error) bool) {
			yield(ports.Entry{}, &domain.StorageError{Op: "scan", Collection: c.name, Err: err})
		}
	}
	return c.Collection.Scan(ctx)
}

var errBoom = errors.New("boom")

func ready(id, question string) domain.RemoteCard {
	return domain.RemoteCard{
		ID:        id,
		Name:      question,
		Desc:      "answer to " + question,
		URL:       "https://trello.com/c/" + id + "/long",
		ShortURL:  "https://trello.com/c/" + id,
		ShortLink: "s" + id,
		Labels:    []domain.Label{{Color: domain.DefaultReadyColor}},
	}
}

func catalogOf(store ports.Store) *catalog.Catalog {
	return catalog.New(store)
}
