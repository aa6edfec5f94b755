// Package reconcile mirrors the remote board into the local catalog
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"helpbot/internal/application"
	"helpbot/internal/application/catalog"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

// Options configures an Engine
type Options struct {
	BoardID    string
	Ignore     domain.NameSet
	ReadyColor string        // defaults to domain.DefaultReadyColor
	Cadence    time.Duration // records older than this are re-pulled
	Locker     *application.KeyLocker
	Logger     ports.Logger
	Now        func() time.Time
}

// Engine diffs the remote board against the catalog and applies the changes.
// SyncLists must complete before SyncCards for the same pass.
type Engine struct {
	remote     ports.RemoteSource
	catalog    *catalog.Catalog
	boardID    string
	ignore     domain.NameSet
	readyColor string
	cadence    time.Duration
	locker     *application.KeyLocker
	logger     ports.Logger
	now        func() time.Time
}

// NewEngine creates an Engine
func NewEngine(remote ports.RemoteSource, cat *catalog.Catalog, opts Options) (*Engine, error) {
	if remote == nil {
		return nil, fmt.Errorf("remote source is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if err := application.ValidateRequired("boardID", opts.BoardID); err != nil {
		return nil, err
	}
	e := &Engine{
		remote:     remote,
		catalog:    cat,
		boardID:    opts.BoardID,
		ignore:     opts.Ignore,
		readyColor: opts.ReadyColor,
		cadence:    opts.Cadence,
		locker:     opts.Locker,
		logger:     opts.Logger,
		now:        opts.Now,
	}
	if e.readyColor == "" {
		e.readyColor = domain.DefaultReadyColor
	}
	if e.locker == nil {
		e.locker = application.NewKeyLocker()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// SyncLists reconciles the persisted categories with the board's columns.
// Lists that disappeared upstream are removed together with their cards;
// the first remote or storage failure aborts the pass.
func (e *Engine) SyncLists(ctx context.Context) (domain.ListSyncStats, error) {
	start := time.Now()
	var stats domain.ListSyncStats

	remote, err := e.remote.ListBoardLists(ctx, e.boardID)
	if err != nil {
		return stats, &application.SyncError{Phase: "lists", Err: err}
	}
	kept := e.ignore.FilterLists(remote)
	stats.Ignored = len(remote) - len(kept)

	remoteIDs := make(map[string]bool, len(kept))
	for _, l := range kept {
		remoteIDs[l.ID] = true
	}

	persisted, err := e.catalog.AllLists(ctx)
	if err != nil {
		return stats, &application.SyncError{Phase: "lists", Err: err}
	}

	byID := make(map[string]domain.List, len(persisted))
	for _, l := range persisted {
		if remoteIDs[l.ID] {
			byID[l.ID] = l
			continue
		}
		purged, err := e.removeList(ctx, l.ID)
		if err != nil {
			return stats, &application.SyncError{Phase: "lists", Err: err}
		}
		stats.Removed++
		stats.CardsPurged += purged
		e.logf("component=reconcile action=remove_list list=%s name=%q cards=%d", l.ID, l.Name, purged)
	}

	now := e.now()
	for _, r := range kept {
		current, ok := byID[r.ID]
		switch {
		case !ok:
			l := domain.NewList(r, now)
			if err := e.catalog.PutList(ctx, l); err != nil {
				return stats, &application.SyncError{Phase: "lists", Err: err}
			}
			byID[r.ID] = l
			stats.Added++
		case domain.IsStale(current.LastSyncedAt, now, e.cadence):
			current.Refresh(r, now)
			if err := e.catalog.PutList(ctx, current); err != nil {
				return stats, &application.SyncError{Phase: "lists", Err: err}
			}
			byID[r.ID] = current
			stats.Updated++
		default:
			stats.Unchanged++
		}
	}

	stats.Duration = time.Since(start)
	e.logf("component=reconcile action=sync_lists added=%d updated=%d unchanged=%d removed=%d cards_purged=%d ignored=%d",
		stats.Added, stats.Updated, stats.Unchanged, stats.Removed, stats.CardsPurged, stats.Ignored)
	return stats, nil
}

// removeList deletes every card of the list and then the list itself, so a
// failed cascade leaves the list in place rather than orphaning cards.
func (e *Engine) removeList(ctx context.Context, listID string) (int, error) {
	cards, err := e.catalog.CardsForList(ctx, listID)
	if err != nil {
		return 0, err
	}
	ids := cardIDs(cards)
	if err := e.deleteCards(ctx, ids); err != nil {
		return 0, err
	}
	if err := e.catalog.DeleteList(ctx, listID); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// SyncCards reconciles the cards of every persisted list. A failure on one
// list is recorded in the returned stats and does not stop its siblings.
//
// Upserts for every list run before any card is removed, and a card is removed
// only when it is missing from the ready set of the whole board, so a card that
// moved columns keeps its votes whichever list is visited first. Removals are
// held back while any list failed, since a card that moved into that list would
// look missing.
func (e *Engine) SyncCards(ctx context.Context) (domain.CardSyncStats, error) {
	start := time.Now()
	stats := domain.CardSyncStats{}

	lists, err := e.catalog.AllLists(ctx)
	if err != nil {
		return stats, &application.SyncError{Phase: "cards", Err: err}
	}

	boardReady := make(map[string]bool)
	for _, l := range lists {
		if err := ctx.Err(); err != nil {
			return stats, &application.SyncError{Phase: "cards", Err: err}
		}
		stats.Lists++
		ls, err := e.syncListCards(ctx, l, boardReady)
		stats.Added += ls.Added
		stats.Updated += ls.Updated
		stats.Unchanged += ls.Unchanged
		stats.Ineligible += ls.Ineligible
		if err != nil {
			if stats.Failures == nil {
				stats.Failures = make(map[string]error)
			}
			stats.Failures[l.ID] = fmt.Errorf("list %s (%s): %w", l.ID, l.Name, err)
			e.logf("component=reconcile action=sync_list_cards list=%s error=%q", l.ID, err)
		}
	}

	if len(stats.Failures) == 0 {
		removed, err := e.removeUnready(ctx, lists, boardReady)
		stats.Removed = removed
		if err != nil {
			stats.Duration = time.Since(start)
			return stats, &application.SyncError{Phase: "cards", Err: err}
		}
	} else {
		e.logf("component=reconcile action=remove_cards skipped=true failed=%d", len(stats.Failures))
	}

	stats.Duration = time.Since(start)
	e.logf("component=reconcile action=sync_cards lists=%d added=%d updated=%d unchanged=%d removed=%d ineligible=%d failed=%d",
		stats.Lists, stats.Added, stats.Updated, stats.Unchanged, stats.Removed, stats.Ineligible, len(stats.Failures))
	if err := stats.Err(); err != nil {
		return stats, &application.SyncError{Phase: "cards", Err: err}
	}
	return stats, nil
}

// syncListCards upserts the ready cards of one list and adds their IDs to
// boardReady
func (e *Engine) syncListCards(ctx context.Context, list domain.List, boardReady map[string]bool) (domain.CardSyncStats, error) {
	var stats domain.CardSyncStats

	remote, err := e.remote.ListCards(ctx, list.ID)
	if err != nil {
		return stats, err
	}
	ready := domain.FilterReady(remote, e.readyColor)
	stats.Ineligible = len(remote) - len(ready)

	now := e.now()
	for _, rc := range ready {
		boardReady[rc.ID] = true
		outcome, err := e.upsertCard(ctx, rc, list, now)
		if err != nil {
			return stats, err
		}
		switch outcome {
		case cardAdded:
			stats.Added++
		case cardUpdated:
			stats.Updated++
		default:
			stats.Unchanged++
		}
	}
	return stats, nil
}

// removeUnready deletes the cards of the given lists that no list on the
// board offers as ready any more
func (e *Engine) removeUnready(ctx context.Context, lists []domain.List, boardReady map[string]bool) (int, error) {
	known := make(map[string]bool, len(lists))
	for _, l := range lists {
		known[l.ID] = true
	}
	var gone []string
	for c, err := range e.catalog.Cards(ctx) {
		if err != nil {
			return 0, err
		}
		if known[c.ListID] && !boardReady[c.ID] {
			gone = append(gone, c.ID)
		}
	}
	if err := e.deleteCards(ctx, gone); err != nil {
		return 0, err
	}
	for _, id := range gone {
		e.logf("component=reconcile action=remove_card card=%s", id)
	}
	return len(gone), nil
}

type cardOutcome int

const (
	cardUnchanged cardOutcome = iota
	cardAdded
	cardUpdated
)

// upsertCard writes one remote card under its lock. The stored record is
// re-read under the lock so that votes recorded since the scan survive.
func (e *Engine) upsertCard(ctx context.Context, rc domain.RemoteCard, list domain.List, now time.Time) (cardOutcome, error) {
	unlock := e.locker.Lock(rc.ID)
	defer unlock()

	current, err := e.catalog.GetCard(ctx, rc.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := e.catalog.PutCard(ctx, domain.NewCard(rc, list, now)); err != nil {
			return cardUnchanged, err
		}
		return cardAdded, nil
	case err != nil:
		return cardUnchanged, err
	}

	// a card that moved columns is refreshed regardless of age
	if current.ListID == list.ID && !domain.IsStale(current.LastSyncedAt, now, e.cadence) {
		return cardUnchanged, nil
	}
	current.Refresh(rc, list, now)
	if err := e.catalog.PutCard(ctx, current); err != nil {
		return cardUnchanged, err
	}
	return cardUpdated, nil
}

// deleteCards holds every card's lock across the batch so a concurrent vote
// cannot write a deleted card back.
func (e *Engine) deleteCards(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	sorted := slices.Sorted(slices.Values(ids))
	unlocks := make([]func(), 0, len(sorted))
	for _, id := range slices.Compact(sorted) {
		unlocks = append(unlocks, e.locker.Lock(id))
	}
	defer func() {
		for _, unlock := range unlocks {
			unlock()
		}
	}()
	return e.catalog.DeleteCards(ctx, ids)
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Printf(format, args...)
}

func cardIDs(cards []domain.Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}
