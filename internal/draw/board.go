package draw

import (
	"strings"
	"time"
	"unicode/utf8"

	"mak/internal/catalog"
	"mak/internal/journal"
)

const (
	maxTakeawayLen = 500

	FreePositionID = "free"
)

// PracticeRef tags a board started from a practice preset.
type PracticeRef struct {
	ID    string
	Title string
	Mode  journal.PracticeMode
}

// Board aggregates the viewers of one spread. Cells holds at most one
// finalized record per position id.
type Board struct {
	Deck     catalog.Deck
	Spread   catalog.Spread
	Question string
	Practice *PracticeRef

	rng    RNG
	cells  map[string]Cell
	viewer *Viewer
	free   bool
}

func NewBoard(deck catalog.Deck, spread catalog.Spread, question string, rng RNG) *Board {
	if rng == nil {
		rng = StdRNG{}
	}
	return &Board{
		Deck:     deck,
		Spread:   spread,
		Question: strings.TrimSpace(question),
		rng:      rng,
		cells:    map[string]Cell{},
	}
}

// NewFreeBoard is a one-position board whose result goes to the free-card
// collection instead of a session.
func NewFreeBoard(deck catalog.Deck, rng RNG) *Board {
	b := NewBoard(deck, catalog.Spread{
		ID:         FreePositionID,
		Name:       "Free card",
		Difficulty: catalog.Easy,
		Positions: []catalog.SpreadPosition{
			{ID: FreePositionID, Label: "Free card", Question: "What is important to see now?"},
		},
	}, "", rng)
	b.free = true
	return b
}

func (b *Board) IsFree() bool { return b.free }

func (b *Board) position(id string) (catalog.SpreadPosition, bool) {
	for _, p := range b.Spread.Positions {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.SpreadPosition{}, false
}

// Open starts a fresh viewer for positionID. Cards already placed on the
// board are excluded from the draw pool. Any open viewer is discarded.
func (b *Board) Open(positionID string) (*Viewer, error) {
	pos, ok := b.position(positionID)
	if !ok {
		return nil, ErrUnknownPosition
	}
	if len(b.Deck.Cards) == 0 {
		return nil, ErrEmptyDeck
	}
	b.viewer = NewViewer(pos, b.Deck, b.usedCardIDs(), b.rng)
	return b.viewer, nil
}

func (b *Board) usedCardIDs() map[string]struct{} {
	used := make(map[string]struct{}, len(b.cells))
	for _, c := range b.cells {
		used[c.CardID] = struct{}{}
	}
	return used
}

// Viewer returns the open viewer.
func (b *Board) Viewer() (*Viewer, error) {
	if b.viewer == nil {
		return nil, ErrNoActiveViewer
	}
	return b.viewer, nil
}

// CloseViewer drops the open viewer and its unsaved draw.
func (b *Board) CloseViewer() {
	b.viewer = nil
}

// SaveViewer finalizes the open viewer into its position and closes it.
func (b *Board) SaveViewer() (Cell, error) {
	if b.viewer == nil {
		return Cell{}, ErrNoActiveViewer
	}
	cell, err := b.viewer.Save()
	if err != nil {
		return Cell{}, err
	}
	b.cells[b.viewer.Position().ID] = cell
	b.viewer = nil
	return cell, nil
}

func (b *Board) Filled() int   { return len(b.cells) }
func (b *Board) Total() int    { return len(b.Spread.Positions) }
func (b *Board) CanSave() bool { return len(b.cells) > 0 }

func (b *Board) Complete() bool {
	return b.Total() > 0 && b.Filled() == b.Total()
}

// Cells returns a copy of the filled positions keyed by position id.
func (b *Board) Cells() map[string]Cell {
	out := make(map[string]Cell, len(b.cells))
	for k, v := range b.cells {
		out[k] = v
	}
	return out
}

func (b *Board) Reset() {
	b.cells = map[string]Cell{}
	b.viewer = nil
}

// BuildSession zips filled positions with their labels in spread order.
// Positions never filled are left out.
func (b *Board) BuildSession(takeaway, id string, now time.Time) (journal.Session, error) {
	if b.free {
		return journal.Session{}, ErrNotFreeBoard
	}
	if !b.CanSave() {
		return journal.Session{}, ErrNothingToSave
	}
	takeaway = strings.TrimSpace(takeaway)
	if utf8.RuneCountInString(takeaway) > maxTakeawayLen {
		return journal.Session{}, ErrTooLong
	}

	cards := make([]journal.SessionCard, 0, len(b.cells))
	for _, p := range b.Spread.Positions {
		c, ok := b.cells[p.ID]
		if !ok {
			continue
		}
		cards = append(cards, journal.SessionCard{
			PositionID: p.ID,
			Label:      p.Label,
			Question:   p.Question,
			CardID:     c.CardID,
			ImageURL:   c.ImageURL,
			Keywords:   c.Keywords,
			Note:       c.Note,
		})
	}

	s := journal.Session{
		ID:         id,
		CreatedAt:  now.UnixMilli(),
		Question:   b.Question,
		Takeaway:   takeaway,
		DeckID:     b.Deck.ID,
		DeckName:   joinLabel(b.Deck.Emoji, b.Deck.Name),
		SpreadID:   b.Spread.ID,
		SpreadName: joinLabel(b.Spread.Icon, b.Spread.Name),
		Cards:      cards,
	}
	if b.Practice != nil {
		s.PracticeID = b.Practice.ID
		s.PracticeTitle = b.Practice.Title
		s.PracticeMode = b.Practice.Mode
	}
	return s, nil
}

// BuildFreeCard returns the saved free draw. Reset the board once it is
// stored to draw again.
func (b *Board) BuildFreeCard() (journal.FreeCardInput, error) {
	if !b.free {
		return journal.FreeCardInput{}, ErrNotFreeBoard
	}
	c, ok := b.cells[FreePositionID]
	if !ok {
		return journal.FreeCardInput{}, ErrNothingToSave
	}
	return journal.FreeCardInput{
		CardID:   c.CardID,
		ImageURL: c.ImageURL,
		Keywords: c.Keywords,
		Note:     c.Note,
	}, nil
}

func joinLabel(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + " " + name
}
