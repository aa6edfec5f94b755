// Package vote records reactions on delivered answers against card counters
package vote

import (
	"context"
	"fmt"

	"helpbot/internal/application"
	"helpbot/internal/application/catalog"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

// Ledger applies votes as a read-modify-write under the card's lock
type Ledger struct {
	catalog *catalog.Catalog
	locker  *application.KeyLocker
	logger  ports.Logger
}

// NewLedger creates a Ledger. Pass the same locker as the reconcile engine.
func NewLedger(cat *catalog.Catalog, locker *application.KeyLocker, logger ports.Logger) *Ledger {
	if locker == nil {
		locker = application.NewKeyLocker()
	}
	return &Ledger{catalog: cat, locker: locker, logger: logger}
}

// Apply adds one vote in dir to the card
func (l *Ledger) Apply(ctx context.Context, cardID string, dir domain.VoteDirection) (domain.Card, error) {
	return l.update(ctx, cardID, dir, "apply", (*domain.Card).AddVote)
}

// Retract removes one vote in dir from the card, never going below zero
func (l *Ledger) Retract(ctx context.Context, cardID string, dir domain.VoteDirection) (domain.Card, error) {
	return l.update(ctx, cardID, dir, "retract", (*domain.Card).RemoveVote)
}

func (l *Ledger) update(ctx context.Context, cardID string, dir domain.VoteDirection, action string, change func(*domain.Card, domain.VoteDirection)) (domain.Card, error) {
	if err := application.ValidateRequired("cardID", cardID); err != nil {
		return domain.Card{}, err
	}

	unlock := l.locker.Lock(cardID)
	defer unlock()

	card, err := l.catalog.GetCard(ctx, cardID)
	if err != nil {
		return domain.Card{}, &application.VoteError{CardID: cardID, Direction: dir, Err: err}
	}
	change(&card, dir)
	if err := l.catalog.PutCard(ctx, card); err != nil {
		return domain.Card{}, &application.VoteError{CardID: cardID, Direction: dir, Err: err}
	}

	l.logf("component=vote action=%s card=%s direction=%s up=%d down=%d", action, cardID, dir, card.UpVotes, card.DownVotes)
	return card, nil
}

func (l *Ledger) logf(format string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Printf(format, args...)
}

// Tally describes the counters of a card for replies
func Tally(c domain.Card) string {
	return fmt.Sprintf("%s %d  %s %d", domain.ThumbsUp, c.UpVotes, domain.ThumbsDown, c.DownVotes)
}
