// Package index builds and publishes the in-memory query snapshot
package index

import (
	"context"
	"sync/atomic"
	"time"

	"helpbot/internal/application/catalog"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

// Options configures an Index
type Options struct {
	Ignore    domain.NameSet
	TopicList string // cards of this list become topics
	Logger    ports.Logger
	Now       func() time.Time
}

// Index holds the most recently published snapshot
type Index struct {
	catalog   *catalog.Catalog
	ignore    domain.NameSet
	topicList string
	logger    ports.Logger
	now       func() time.Time
	current   atomic.Pointer[domain.Snapshot]
}

// New creates an Index publishing domain.EmptySnapshot until the first rebuild
func New(cat *catalog.Catalog, opts Options) *Index {
	idx := &Index{
		catalog:   cat,
		ignore:    opts.Ignore,
		topicList: opts.TopicList,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if idx.now == nil {
		idx.now = time.Now
	}
	idx.current.Store(domain.EmptySnapshot)
	return idx
}

// Current returns the published snapshot; it is never nil
func (idx *Index) Current() *domain.Snapshot {
	return idx.current.Load()
}

// Rebuild reads the catalog into a new snapshot and publishes it.
// On a scan failure the previous snapshot stays published.
func (idx *Index) Rebuild(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := idx.build(ctx)
	if err != nil {
		idx.logf("component=index action=rebuild error=%q", err)
		return nil, err
	}
	idx.current.Store(snap)
	idx.logf("component=index action=rebuild lists=%d cards=%d topics=%d skipped=%d",
		len(snap.Lists), len(snap.Cards), len(snap.Topics), snap.Skipped)
	return snap, nil
}

func (idx *Index) build(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}
	position := make(map[string]int)

	for l, err := range idx.catalog.Lists(ctx) {
		if err != nil {
			return nil, err
		}
		if idx.ignore.Contains(l.Name) {
			continue
		}
		position[l.ID] = len(snap.Lists)
		snap.Lists = append(snap.Lists, domain.CategoryList{List: l})
	}

	for c, err := range idx.catalog.Cards(ctx) {
		if err != nil {
			return nil, err
		}
		pos, known := position[c.ListID]
		if idx.isTopic(c, snap, pos, known) {
			snap.Topics = append(snap.Topics, c)
			continue
		}
		if !known {
			snap.Skipped++
			idx.logf("component=index action=skip_card card=%s list=%s question=%q", c.ID, c.ListID, c.Question)
			continue
		}
		snap.Lists[pos].Cards = append(snap.Lists[pos].Cards, c)
		snap.Cards = append(snap.Cards, c)
	}

	snap.BuiltAt = idx.now()
	return snap, nil
}

// isTopic classifies by the owning list's name, falling back to the label
// stored on the card when the list is not part of the snapshot
func (idx *Index) isTopic(c domain.Card, snap *domain.Snapshot, pos int, known bool) bool {
	if idx.topicList == "" {
		return false
	}
	name := c.ListLabel
	if known {
		name = snap.Lists[pos].Name
	}
	return domain.SameName(name, idx.topicList)
}

func (idx *Index) logf(format string, args ...any) {
	if idx.logger == nil {
		return
	}
	idx.logger.Printf(format, args...)
}
