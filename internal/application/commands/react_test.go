package commands

import (
	"context"
	"errors"
	"testing"

	"helpbot/internal/application"
	"helpbot/internal/application/vote"
	"helpbot/internal/domain"
)

func newReactionFixture(t *testing.T) (*ReactionHandler, func(id string) domain.Card) {
	t.Helper()
	snap := knowledgeBase()
	cat := newTestCatalog(t, snap.Cards...)
	for _, tp := range snap.Topics {
		if err := cat.PutCard(context.Background(), tp); err != nil {
			t.Fatal(err)
		}
	}
	ledger := vote.NewLedger(cat, application.NewKeyLocker(), nil)
	h := NewReactionHandler(staticSnapshots{snap: snap}, ledger, nil)

	load := func(id string) domain.Card {
		t.Helper()
		c, err := cat.GetCard(context.Background(), id)
		if err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
		return c
	}
	return h, load
}

func TestReactionHandler_AddAndRemove(t *testing.T) {
	h, load := newReactionFixture(t)
	ctx := context.Background()
	footer := domain.AnswerFooter("s1")

	if _, err := h.Handle(ctx, ReactionEvent{Kind: ReactionAdd, Emoji: "%F0%9F%91%8D", Footer: footer}); err != nil {
		t.Fatalf("add up: %v", err)
	}
	if _, err := h.Handle(ctx, ReactionEvent{Kind: ReactionAdd, Emoji: domain.ThumbsDown, Footer: footer}); err != nil {
		t.Fatalf("add down: %v", err)
	}
	c := load("c1")
	if c.UpVotes != 1 || c.DownVotes != 1 {
		t.Fatalf("after adds: up=%d down=%d", c.UpVotes, c.DownVotes)
	}

	for range 2 {
		if _, err := h.Handle(ctx, ReactionEvent{Kind: ReactionRemove, Emoji: domain.ThumbsDown, Footer: footer}); err != nil {
			t.Fatalf("remove down: %v", err)
		}
	}
	c = load("c1")
	if c.DownVotes != 0 {
		t.Errorf("down votes should clamp at zero, got %d", c.DownVotes)
	}
	if c.UpVotes != 1 {
		t.Errorf("up votes should be unaffected, got %d", c.UpVotes)
	}
}

func TestReactionHandler_Ignored(t *testing.T) {
	h, load := newReactionFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		ev   ReactionEvent
	}{
		{name: "from bot", ev: ReactionEvent{Emoji: domain.ThumbsUp, Footer: domain.AnswerFooter("s1"), FromBot: true}},
		{name: "no footer", ev: ReactionEvent{Emoji: domain.ThumbsUp}},
		{name: "footer without id", ev: ReactionEvent{Emoji: domain.ThumbsUp, Footer: "just text"}},
		{name: "unsupported emoji", ev: ReactionEvent{Emoji: "🎉", Footer: domain.AnswerFooter("s1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(ctx, tt.ev)
			if !errors.Is(err, ErrIgnoredReaction) {
				t.Errorf("expected ErrIgnoredReaction, got %v", err)
			}
		})
	}

	if c := load("c1"); c.UpVotes != 0 || c.DownVotes != 0 {
		t.Errorf("ignored reactions must not vote: %+v", c)
	}
}

func TestReactionHandler_UnknownShortID(t *testing.T) {
	h, _ := newReactionFixture(t)

	_, err := h.Handle(context.Background(), ReactionEvent{Emoji: domain.ThumbsUp, Footer: domain.AnswerFooter("nope")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReactionHandler_VoteOnTopic(t *testing.T) {
	h, load := newReactionFixture(t)

	card, err := h.Vote(context.Background(), "st", domain.VoteUp, false)
	if err != nil {
		t.Fatal(err)
	}
	if card.UpVotes != 1 || load("t1").UpVotes != 1 {
		t.Errorf("expected topic vote to be recorded, got %+v", card)
	}
}

func TestReactionHandler_CardGoneFromStore(t *testing.T) {
	snap := knowledgeBase()
	cat := newTestCatalog(t)
	h := NewReactionHandler(staticSnapshots{snap: snap}, vote.NewLedger(cat, nil, nil), nil)

	_, err := h.Vote(context.Background(), "s1", domain.VoteUp, false)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound when the card was removed since the rebuild, got %v", err)
	}
}

func TestReactionHandler_VoteRejectsMalformedShortID(t *testing.T) {
	h, _ := newReactionFixture(t)

	_, err := h.Vote(context.Background(), "s1) (s2", domain.VoteUp, false)
	var verr *application.ValidationError
	if !errors.As(err, &verr) || verr.Field != "shortID" {
		t.Errorf("expected shortID validation error, got %v", err)
	}
}
