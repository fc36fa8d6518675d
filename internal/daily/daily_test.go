package daily_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mak/internal/catalog"
	"mak/internal/daily"
	"mak/internal/storage"
)

func TestHash_Golden(t *testing.T) {
	assert.Equal(t, uint32(97), daily.Hash("a"))
	assert.Equal(t, uint32(3105), daily.Hash("ab"))
	// surrogate pair, hashed as two UTF-16 units
	assert.Equal(t, uint32(1772563), daily.Hash("🃏"))
	assert.Equal(t, uint32(3958119371), daily.Hash("2024-01-01:base"))
}

func TestIndex_DeterministicAndSpread(t *testing.T) {
	first := daily.Index("2024-01-01", "base", 8)
	for range 10 {
		assert.Equal(t, first, daily.Index("2024-01-01", "base", 8))
	}
	assert.Equal(t, 3, first)
	assert.NotEqual(t, first, daily.Index("2024-01-01", "ihavemyself", 8))
	assert.Equal(t, 0, daily.Index("2024-01-01", "base", 0))
}

func TestCardsFromDeck_NumericOrder(t *testing.T) {
	deck := catalog.Deck{ID: "d", Cards: []catalog.Card{
		{ID: "c10", ImageURL: "/10.png"},
		{ID: "c2", ImageURL: "/2.png"},
		{ID: "c1", ImageURL: "/1.png"},
	}}
	cards := daily.CardsFromDeck(deck)
	require.Len(t, cards, 3)
	assert.Equal(t, []string{"c1", "c2", "c10"}, []string{cards[0].ID, cards[1].ID, cards[2].ID})
	assert.Equal(t, "Card 3", cards[2].Title)
	assert.Equal(t, "/10.png", cards[2].Image)

	assert.Len(t, daily.CardsFromDeck(catalog.Deck{}), len(daily.DefaultCards))
}

func TestPick_EmptyUsesDefaults(t *testing.T) {
	c := daily.Pick("2024-01-01", "base", nil)
	assert.Equal(t, daily.DefaultCards[3], c)
}

func TestFlow_Gating(t *testing.T) {
	f := daily.NewFlow("2024-01-01", "base", daily.DefaultCards[0])
	require.NoError(t, f.Next())
	assert.Equal(t, daily.StepDraw, f.Step)

	assert.ErrorIs(t, f.Next(), daily.ErrStepIncomplete)
	require.NoError(t, f.Draw())
	require.NoError(t, f.Next())

	f.Answers.A2 = "   "
	assert.ErrorIs(t, f.Next(), daily.ErrStepIncomplete)
	f.Answers.A2 = "sun"
	require.NoError(t, f.Next())

	f.Answers.MicroStep = " a "
	assert.ErrorIs(t, f.Next(), daily.ErrStepIncomplete)
	f.Answers.MicroStep = "walk"
	require.NoError(t, f.Next())

	f.Answers.Summary = "x"
	assert.ErrorIs(t, f.Next(), daily.ErrStepIncomplete)
	f.Answers.Summary = "ok"
	require.NoError(t, f.Next())
	assert.Equal(t, daily.StepDone, f.Step)
	assert.ErrorIs(t, f.Next(), daily.ErrFlowFinished)
}

func TestFlow_LengthCountsUTF16Units(t *testing.T) {
	f := &daily.Flow{Step: daily.StepSummary}
	f.Answers.Summary = " 🙂 "
	assert.True(t, f.CanContinue(), "a surrogate pair is two units")

	f.Answers.Summary = "é"
	assert.False(t, f.CanContinue())

	f.Step = daily.StepMicro
	f.Answers.MicroStep = "🌿"
	assert.True(t, f.CanContinue())
}

func TestFlow_BackIsUnrestricted(t *testing.T) {
	f := daily.NewFlow("2024-01-01", "base", daily.DefaultCards[0])
	f.Back()
	assert.Equal(t, daily.StepIntro, f.Step)

	f.Step = daily.StepSummary
	f.Back()
	f.Back()
	assert.Equal(t, daily.StepAssoc, f.Step)
}

func newService(t *testing.T) (*daily.Service, *storage.Adapter) {
	t.Helper()
	a := storage.NewAdapter(storage.NewMemoryStore(), "owner-1", nil)
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	return daily.NewService(a).WithClock(func() time.Time { return now }), a
}

func runToDone(t *testing.T, ctx context.Context, s *daily.Service, f *daily.Flow) *daily.Entry {
	t.Helper()
	var last *daily.Entry
	step := func() {
		e, err := s.Advance(ctx, f)
		require.NoError(t, err)
		if e != nil {
			last = e
		}
	}
	step()
	require.NoError(t, f.Draw())
	step()
	f.Answers = daily.Answers{A1: " tree ", MicroStep: "call mom", Summary: "calm day"}
	step()
	step()
	step()
	return last
}

func TestService_DoneAppendsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)

	f := s.Start(ctx, nil, "")
	assert.Equal(t, "2024-01-01", f.DateISO)
	assert.Equal(t, daily.DefaultDeckID, f.DeckID)

	e := runToDone(t, ctx, s, f)
	require.NotNil(t, e)
	assert.Equal(t, "tree", e.A1)
	assert.Equal(t, daily.KindDaily, e.Kind)
	assert.Contains(t, e.ID, "daily_2024-01-01_")

	f.Back()
	_, err := s.Advance(ctx, f)
	require.NoError(t, err)

	entries := s.Journal().Entries(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, e.ID, entries[0].ID)

	second := runToDone(t, ctx, s, s.Start(ctx, nil, ""))
	entries = s.Journal().Entries(ctx)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID, "new entries are prepended")

	assert.True(t, s.Journal().Remove(ctx, e.ID))
	assert.Len(t, s.Journal().Entries(ctx), 1)
}

func TestService_SelectedDeck(t *testing.T) {
	ctx := context.Background()
	s, a := newService(t)
	cat := &catalog.Catalog{Decks: []catalog.Deck{{ID: "ihavemyself"}, {ID: "base"}}}

	assert.Equal(t, "base", s.SelectedDeck(ctx, nil))
	assert.Equal(t, "ihavemyself", s.SelectedDeck(ctx, cat))
	stored, ok := a.GetRaw(ctx, storage.KeyDeck)
	require.True(t, ok)
	assert.Equal(t, "ihavemyself", stored)

	require.NoError(t, s.SelectDeck(ctx, cat, "base"))
	assert.Equal(t, "base", s.SelectedDeck(ctx, cat))
	assert.ErrorIs(t, s.SelectDeck(ctx, cat, "nope"), catalog.ErrDeckNotFound)
}
