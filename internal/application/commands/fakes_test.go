package commands

import (
	"context"
	"testing"

	"helpbot/internal/adapters/fuzzy"
	"helpbot/internal/adapters/memory"
	"helpbot/internal/application/catalog"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

type staticSnapshots struct {
	snap *domain.Snapshot
}

func (s staticSnapshots) Current() *domain.Snapshot {
	return s.snap
}

// countingRanker records calls to the wrapped ranker
type countingRanker struct {
	calls int
	inner *fuzzy.Ranker
}

func (r *countingRanker) Rank(query string, candidates []string) []ports.Ranked {
	r.calls++
	return r.inner.Rank(query, candidates)
}

type fakePurger struct {
	calls int
	err   error
}

func (p *fakePurger) Purge(ctx context.Context) error {
	p.calls++
	return p.err
}

func knowledgeBase() *domain.Snapshot {
	reset := domain.Card{ID: "c1", ListID: "l1", ListLabel: "Accounts", Question: "how do I reset my password", Answer: "Use the reset link.", ShortID: "s1", ShortURL: "https://trello.com/c/s1"}
	email := domain.Card{ID: "c2", ListID: "l1", ListLabel: "Accounts", Question: "how do I change my email", Answer: "Open settings.", ShortID: "s2", ShortURL: "https://trello.com/c/s2"}
	invoice := domain.Card{ID: "c3", ListID: "l2", ListLabel: "Billing", Question: "where is my invoice", Answer: "Under billing.", ShortID: "s3", ShortURL: "https://trello.com/c/s3"}
	pricing := domain.Card{ID: "t1", ListID: "lt", ListLabel: "Keywords", Question: "pricing", Answer: "See the pricing page.", ShortID: "st", ShortURL: "https://trello.com/c/st"}

	return &domain.Snapshot{
		Lists: []domain.CategoryList{
			{List: domain.List{ID: "l1", Name: "Accounts"}, Cards: []domain.Card{reset, email}},
			{List: domain.List{ID: "l2", Name: "Billing"}, Cards: []domain.Card{invoice}},
			{List: domain.List{ID: "lt", Name: "Keywords"}},
		},
		Cards:  []domain.Card{reset, email, invoice},
		Topics: []domain.Card{pricing},
	}
}

func newTestCatalog(t *testing.T, cards ...domain.Card) *catalog.Catalog {
	t.Helper()
	cat := catalog.New(memory.NewStore())
	for _, c := range cards {
		if err := cat.PutCard(context.Background(), c); err != nil {
			t.Fatalf("seed card %s: %v", c.ID, err)
		}
	}
	return cat
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && len(substr) > 0 && findSubstring(s, substr)))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
