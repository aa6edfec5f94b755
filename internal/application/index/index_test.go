package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpbot/internal/adapters/memory"
	"helpbot/internal/application/catalog"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, format)
}

func seed(t *testing.T, lists []domain.List, cards []domain.Card) (*catalog.Catalog, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	cat := catalog.New(store)
	ctx := context.Background()
	for _, l := range lists {
		require.NoError(t, cat.PutList(ctx, l))
	}
	for _, c := range cards {
		require.NoError(t, cat.PutCard(ctx, c))
	}
	return cat, store
}

func TestRebuild_Classification(t *testing.T) {
	cat, _ := seed(t,
		[]domain.List{
			{ID: "l1", Name: "Accounts"},
			{ID: "l2", Name: "Billing"},
			{ID: "lt", Name: "Keywords"},
			{ID: "li", Name: "Aim"},
		},
		[]domain.Card{
			{ID: "c1", ListID: "l1", Question: "reset password"},
			{ID: "c2", ListID: "l2", Question: "invoice"},
			{ID: "c3", ListID: "l1", Question: "change email"},
			{ID: "c4", ListID: "lt", Question: "pricing"},
			{ID: "c5", ListID: "gone", ListLabel: "Removed", Question: "orphan"},
			{ID: "c6", ListID: "li", Question: "internal goal"},
		},
	)
	logger := &recordingLogger{}
	idx := New(cat, Options{
		Ignore:    domain.NewNameSet(domain.DefaultIgnoreLists...),
		TopicList: "keywords",
		Logger:    logger,
	})

	snap, err := idx.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Same(t, snap, idx.Current())

	require.Len(t, snap.Lists, 3, "ignored lists are excluded")
	assert.Equal(t, "Accounts", snap.Lists[0].Name)
	assert.Len(t, snap.Lists[0].Cards, 2)
	assert.Empty(t, snap.Lists[2].Cards, "topic list carries no ordinary cards")

	require.Len(t, snap.Cards, 3)
	assert.Equal(t, []string{"c1", "c2", "c3"}, []string{snap.Cards[0].ID, snap.Cards[1].ID, snap.Cards[2].ID})

	require.Len(t, snap.Topics, 1)
	assert.Equal(t, "pricing", snap.Topics[0].Question)

	assert.Equal(t, 2, snap.Skipped, "unknown and ignored-list cards are skipped")
	assert.NotEmpty(t, logger.lines)
}

func TestRebuild_TopicByLabelWhenListUnknown(t *testing.T) {
	cat, _ := seed(t, nil, []domain.Card{
		{ID: "t1", ListID: "missing", ListLabel: "Keywords", Question: "pricing"},
	})
	idx := New(cat, Options{TopicList: "Keywords"})

	snap, err := idx.Rebuild(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Topics, 1)
	assert.Equal(t, 0, snap.Skipped)
}

func TestCurrent_EmptyBeforeRebuild(t *testing.T) {
	cat, _ := seed(t, nil, nil)
	idx := New(cat, Options{})

	require.NotNil(t, idx.Current())
	assert.Same(t, domain.EmptySnapshot, idx.Current())
}

func TestRebuild_FailureKeepsPreviousSnapshot(t *testing.T) {
	cat, store := seed(t,
		[]domain.List{{ID: "l1", Name: "Accounts"}},
		[]domain.Card{{ID: "c1", ListID: "l1", Question: "reset password"}},
	)
	idx := New(cat, Options{})
	first, err := idx.Rebuild(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.Collection(ports.CardsCollection).Put(context.Background(), "c2", []byte("{broken")))
	_, err = idx.Rebuild(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageIO)
	assert.Same(t, first, idx.Current())
}

func TestRebuild_SnapshotIsReplacedNotMutated(t *testing.T) {
	cat, _ := seed(t,
		[]domain.List{{ID: "l1", Name: "Accounts"}},
		[]domain.Card{{ID: "c1", ListID: "l1", Question: "reset password"}},
	)
	idx := New(cat, Options{})
	first, err := idx.Rebuild(context.Background())
	require.NoError(t, err)

	require.NoError(t, cat.PutCard(context.Background(), domain.Card{ID: "c2", ListID: "l1", Question: "change email"}))
	second, err := idx.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Len(t, first.Cards, 1, "published snapshots never change")
	assert.Len(t, second.Cards, 2)
	assert.NotSame(t, first, second)
}
