package draw_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mak/internal/catalog"
	"mak/internal/draw"
	"mak/internal/journal"
)

// fixedRNG always returns the same index, clamped to the pool.
type fixedRNG int

func (f fixedRNG) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func testDeck() catalog.Deck {
	return catalog.Deck{
		ID: "base", Name: "Base", Emoji: "🃏", CardCount: 3,
		Cards: []catalog.Card{
			{ID: "A", ImageURL: "/a.png", Keywords: []string{"a"}},
			{ID: "B", ImageURL: "/b.png"},
			{ID: "C", ImageURL: "/c.png", Keywords: []string{"c"}},
		},
	}
}

func twoPositionSpread() catalog.Spread {
	return catalog.Spread{
		ID: "two", Name: "Two", Icon: "✌️", Difficulty: catalog.Easy,
		Positions: []catalog.SpreadPosition{
			{ID: "P1", Label: "First", Question: "q1"},
			{ID: "P2", Label: "Second", Question: "q2"},
		},
	}
}

func fillPosition(t *testing.T, b *draw.Board, pos, note string) draw.Cell {
	t.Helper()
	v, err := b.Open(pos)
	require.NoError(t, err)
	require.NoError(t, v.Draw())
	require.NoError(t, v.Next())
	require.NoError(t, v.SetNote(note))
	cell, err := b.SaveViewer()
	require.NoError(t, err)
	return cell
}

func TestBoard_SaveZipsFilledPositionsInOrder(t *testing.T) {
	b := draw.NewBoard(testDeck(), twoPositionSpread(), "  what now?  ", fixedRNG(0))

	a := fillPosition(t, b, "P1", " first note ")
	assert.Equal(t, "A", a.CardID)
	assert.Equal(t, "first note", a.Note)
	bb := fillPosition(t, b, "P2", "")
	assert.Equal(t, "B", bb.CardID)
	assert.True(t, b.Complete())

	now := time.UnixMilli(1_700_000_000_000)
	s, err := b.BuildSession("keep going", "s1", now)
	require.NoError(t, err)

	require.Len(t, s.Cards, 2)
	assert.Equal(t, "A", s.Cards[0].CardID)
	assert.Equal(t, "First", s.Cards[0].Label)
	assert.Equal(t, "B", s.Cards[1].CardID)
	assert.Equal(t, "q2", s.Cards[1].Question)
	assert.Equal(t, "🃏 Base", s.DeckName)
	assert.Equal(t, "✌️ Two", s.SpreadName)
	assert.Equal(t, "what now?", s.Question)
	assert.Equal(t, now.UnixMilli(), s.CreatedAt)
	assert.True(t, journal.IsValidSession(s))
}

func TestBoard_PartialSaveOmitsUnfilled(t *testing.T) {
	b := draw.NewBoard(testDeck(), twoPositionSpread(), "q", fixedRNG(0))
	assert.False(t, b.CanSave())
	_, err := b.BuildSession("", "s1", time.Now())
	assert.ErrorIs(t, err, draw.ErrNothingToSave)

	fillPosition(t, b, "P2", "only second")
	require.True(t, b.CanSave())
	assert.False(t, b.Complete())

	s, err := b.BuildSession("", "s1", time.Now())
	require.NoError(t, err)
	require.Len(t, s.Cards, 1)
	assert.Equal(t, "P2", s.Cards[0].PositionID)
}

func TestBoard_CloseViewerDiscardsDraw(t *testing.T) {
	b := draw.NewBoard(testDeck(), twoPositionSpread(), "q", fixedRNG(0))
	v, err := b.Open("P1")
	require.NoError(t, err)
	require.NoError(t, v.Draw())
	require.NoError(t, v.Next())

	b.CloseViewer()
	assert.Equal(t, 0, b.Filled())
	_, err = b.SaveViewer()
	assert.ErrorIs(t, err, draw.ErrNoActiveViewer)
}

func TestBoard_OpenUnknownPosition(t *testing.T) {
	b := draw.NewBoard(testDeck(), twoPositionSpread(), "q", fixedRNG(0))
	_, err := b.Open("nope")
	assert.ErrorIs(t, err, draw.ErrUnknownPosition)
}

func TestBoard_TakeawayLimit(t *testing.T) {
	b := draw.NewBoard(testDeck(), twoPositionSpread(), "q", fixedRNG(0))
	fillPosition(t, b, "P1", "")
	long := make([]rune, 501)
	for i := range long {
		long[i] = 'я'
	}
	_, err := b.BuildSession(string(long), "s1", time.Now())
	assert.ErrorIs(t, err, draw.ErrTooLong)
}

func TestBoard_PracticeTagging(t *testing.T) {
	b := draw.NewBoard(testDeck(), twoPositionSpread(), "q", fixedRNG(0))
	b.Practice = &draw.PracticeRef{ID: "stuck", Title: "Stuck", Mode: journal.ModePro}
	fillPosition(t, b, "P1", "")

	s, err := b.BuildSession("", "s1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "stuck", s.PracticeID)
	assert.Equal(t, journal.ModePro, s.PracticeMode)
}

func TestAvailable_ExcludesUsedUntilExhausted(t *testing.T) {
	deck := testDeck()

	pool := draw.Available(deck, map[string]struct{}{"A": {}, "C": {}})
	require.Len(t, pool, 1)
	assert.Equal(t, "B", pool[0].ID)

	all := draw.Available(deck, map[string]struct{}{"A": {}, "B": {}, "C": {}})
	assert.Len(t, all, 3)
}

func TestViewer_RedrawNeverReturnsUsedCard(t *testing.T) {
	used := map[string]struct{}{"A": {}, "B": {}}
	v := draw.NewViewer(catalog.SpreadPosition{ID: "p"}, testDeck(), used, draw.StdRNG{})
	require.NoError(t, v.Draw())
	for range 50 {
		require.NoError(t, v.Redraw())
		c, ok := v.Card()
		require.True(t, ok)
		assert.Equal(t, "C", c.ID)
	}
}

func TestViewer_RedrawWithExhaustedDeckAllowsAnyCard(t *testing.T) {
	used := map[string]struct{}{"A": {}, "B": {}, "C": {}}
	seen := map[string]bool{}
	for i := range 3 {
		v := draw.NewViewer(catalog.SpreadPosition{ID: "p"}, testDeck(), used, fixedRNG(i))
		require.NoError(t, v.Draw())
		c, _ := v.Card()
		seen[c.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestViewer_StepGuards(t *testing.T) {
	v := draw.NewViewer(catalog.SpreadPosition{ID: "p"}, testDeck(), nil, fixedRNG(0))
	assert.Equal(t, draw.StepDraw, v.Step())
	assert.ErrorIs(t, v.Redraw(), draw.ErrWrongStep)
	assert.ErrorIs(t, v.Next(), draw.ErrWrongStep)
	assert.ErrorIs(t, v.SetNote("x"), draw.ErrWrongStep)
	_, err := v.Save()
	assert.ErrorIs(t, err, draw.ErrWrongStep)

	require.NoError(t, v.Draw())
	assert.True(t, v.Flipped())
	require.NoError(t, v.Flip())
	assert.False(t, v.Flipped())
	assert.ErrorIs(t, v.Draw(), draw.ErrWrongStep)

	require.NoError(t, v.Next())
	require.NoError(t, v.SetNote("kept"))
	require.NoError(t, v.Back())
	assert.Equal(t, draw.StepView, v.Step())
	assert.Equal(t, "kept", v.Note())
}

func TestViewer_NoteLimit(t *testing.T) {
	v := draw.NewViewer(catalog.SpreadPosition{ID: "p"}, testDeck(), nil, fixedRNG(0))
	require.NoError(t, v.Draw())
	require.NoError(t, v.Next())
	long := make([]byte, 2001)
	for i := range long {
		long[i] = 'x'
	}
	assert.ErrorIs(t, v.SetNote(string(long)), draw.ErrTooLong)
}

func TestFreeBoard(t *testing.T) {
	b := draw.NewFreeBoard(testDeck(), fixedRNG(2))
	_, err := b.BuildSession("", "x", time.Now())
	assert.ErrorIs(t, err, draw.ErrNotFreeBoard)

	_, err = b.BuildFreeCard()
	assert.ErrorIs(t, err, draw.ErrNothingToSave)

	fillPosition(t, b, draw.FreePositionID, "free note")
	in, err := b.BuildFreeCard()
	require.NoError(t, err)
	assert.Equal(t, "C", in.CardID)
	assert.Equal(t, "free note", in.Note)
	assert.Equal(t, 1, b.Filled())
	b.Reset()
	assert.Equal(t, 0, b.Filled())
}

func TestDrafts_OwnerScopedAndSwept(t *testing.T) {
	d := draw.NewDrafts[*draw.Board]()
	id := d.Put("alice", draw.NewFreeBoard(testDeck(), nil))

	err := d.With("bob", id, func(*draw.Board) error { return nil })
	assert.ErrorIs(t, err, draw.ErrDraftNotFound)
	assert.False(t, d.Delete("bob", id))

	called := false
	require.NoError(t, d.With("alice", id, func(b *draw.Board) error {
		called = b.IsFree()
		return nil
	}))
	assert.True(t, called)

	assert.Equal(t, 0, d.Sweep(time.Hour))
	assert.Equal(t, 1, d.Sweep(-time.Second))
	assert.Equal(t, 0, d.Len())
}
