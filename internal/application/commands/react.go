package commands

import (
	"context"
	"errors"

	"helpbot/internal/application"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

// ReactionKind distinguishes an added reaction from a removed one
type ReactionKind int

const (
	ReactionAdd ReactionKind = iota
	ReactionRemove
)

// ReactionEvent is a reaction change on a message the bot delivered
type ReactionEvent struct {
	Kind    ReactionKind
	Emoji   string // the marker or its URL-encoded identifier
	Footer  string // footer text of the reacted message
	FromBot bool
}

// ErrIgnoredReaction reports a reaction that carries no vote
var ErrIgnoredReaction = errors.New("reaction ignored")

// Voter records votes by card ID
type Voter interface {
	Apply(ctx context.Context, cardID string, dir domain.VoteDirection) (domain.Card, error)
	Retract(ctx context.Context, cardID string, dir domain.VoteDirection) (domain.Card, error)
}

// ReactionHandler turns reactions on delivered answers into votes
type ReactionHandler struct {
	snapshots SnapshotSource
	voter     Voter
	logger    ports.Logger
}

// NewReactionHandler creates a ReactionHandler
func NewReactionHandler(snapshots SnapshotSource, voter Voter, logger ports.Logger) *ReactionHandler {
	return &ReactionHandler{snapshots: snapshots, voter: voter, logger: logger}
}

// Handle records the vote carried by ev. Reactions from the bot itself, on
// messages without a vote footer, or with another emoji return
// ErrIgnoredReaction.
func (h *ReactionHandler) Handle(ctx context.Context, ev ReactionEvent) (domain.Card, error) {
	if ev.FromBot {
		return domain.Card{}, ErrIgnoredReaction
	}
	shortID, ok := domain.ShortIDFromFooter(ev.Footer)
	if !ok {
		h.logf("component=reactions action=ignore reason=%q", "no footer")
		return domain.Card{}, ErrIgnoredReaction
	}
	dir, err := domain.ParseVoteDirection(ev.Emoji)
	if err != nil {
		h.logf("component=reactions action=ignore short_id=%s reason=%q", shortID, "unsupported reaction")
		return domain.Card{}, ErrIgnoredReaction
	}
	return h.Vote(ctx, shortID, dir, ev.Kind == ReactionRemove)
}

// Vote applies or retracts a vote on the card with shortID
func (h *ReactionHandler) Vote(ctx context.Context, shortID string, dir domain.VoteDirection, retract bool) (domain.Card, error) {
	if err := application.ValidateShortID("shortID", shortID); err != nil {
		return domain.Card{}, err
	}
	card, ok := h.snapshots.Current().CardByShortID(shortID)
	if !ok {
		h.logf("component=reactions action=vote short_id=%s error=%q", shortID, domain.ErrNotFound)
		return domain.Card{}, domain.ErrNotFound
	}

	var err error
	if retract {
		card, err = h.voter.Retract(ctx, card.ID, dir)
	} else {
		card, err = h.voter.Apply(ctx, card.ID, dir)
	}
	if err != nil {
		h.logf("component=reactions action=vote short_id=%s error=%q", shortID, err)
		return domain.Card{}, err
	}
	return card, nil
}

func (h *ReactionHandler) logf(format string, args ...any) {
	if h.logger == nil {
		return
	}
	h.logger.Printf(format, args...)
}
