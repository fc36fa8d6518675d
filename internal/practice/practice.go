package practice

import (
	"errors"
	"slices"

	"mak/internal/catalog"
	"mak/internal/draw"
	"mak/internal/journal"
)

// PreferredDeckID is tried when the preset deck is not in the catalog.
const PreferredDeckID = "ihavemyself"

var (
	ErrInvalidMode = errors.New("practice mode must be self or pro")
	ErrNoDeck      = errors.New("no deck available for practice")
	ErrNoSpread    = errors.New("no spread available for practice")
)

// Preset is a practice bound to a mode, ready to open a board.
type Preset struct {
	PracticeID     string               `json:"practiceId"`
	PracticeTitle  string               `json:"practiceTitle"`
	PracticeEmoji  string               `json:"practiceEmoji"`
	PracticeMode   journal.PracticeMode `json:"practiceMode"`
	DeckID         string               `json:"deckId"`
	AllowedDeckIDs []string             `json:"allowedDeckIds,omitempty"`
	SpreadID       string               `json:"spreadId"`
	Question       string               `json:"question"`
}

func Start(p catalog.Practice, mode journal.PracticeMode) (Preset, error) {
	if mode == "" {
		mode = journal.ModeSelf
	}
	if mode != journal.ModeSelf && mode != journal.ModePro {
		return Preset{}, ErrInvalidMode
	}
	return Preset{
		PracticeID:     p.ID,
		PracticeTitle:  p.Title,
		PracticeEmoji:  p.Emoji,
		PracticeMode:   mode,
		DeckID:         p.DefaultDeckID,
		AllowedDeckIDs: slices.Clone(p.AllowedDeckIDs),
		SpreadID:       p.RecommendedSpreadID,
		Question:       p.DefaultQuestion,
	}, nil
}

// Prompts returns the questions for the chosen mode.
func Prompts(p catalog.Practice, mode journal.PracticeMode) []string {
	if mode == journal.ModePro {
		return p.ProPrompts
	}
	return p.SelfPrompts
}

// Resolve picks the deck (preset, then PreferredDeckID, then the first one)
// and the spread (preset, then the first one).
func Resolve(p Preset, cat *catalog.Catalog) (catalog.Deck, catalog.Spread, error) {
	deck, err := cat.Deck(p.DeckID)
	if err != nil {
		deck, err = cat.Deck(PreferredDeckID)
	}
	if err != nil {
		if len(cat.Decks) == 0 {
			return catalog.Deck{}, catalog.Spread{}, ErrNoDeck
		}
		deck = cat.Decks[0]
	}

	spread, err := cat.Spread(p.SpreadID)
	if err != nil {
		if len(cat.Spreads) == 0 {
			return catalog.Deck{}, catalog.Spread{}, ErrNoSpread
		}
		spread = cat.Spreads[0]
	}
	return deck, spread, nil
}

// AllowedDecks narrows decks to the preset allow-list, if any.
func AllowedDecks(p Preset, decks []catalog.Deck) []catalog.Deck {
	if len(p.AllowedDeckIDs) == 0 {
		return decks
	}
	out := make([]catalog.Deck, 0, len(p.AllowedDeckIDs))
	for _, d := range decks {
		if slices.Contains(p.AllowedDeckIDs, d.ID) {
			out = append(out, d)
		}
	}
	return out
}

// NewBoard opens a spread board for the preset, tagged with the practice.
func NewBoard(p Preset, cat *catalog.Catalog, rng draw.RNG) (*draw.Board, error) {
	deck, spread, err := Resolve(p, cat)
	if err != nil {
		return nil, err
	}
	b := draw.NewBoard(deck, spread, p.Question, rng)
	b.Practice = &draw.PracticeRef{ID: p.PracticeID, Title: p.PracticeTitle, Mode: p.PracticeMode}
	return b, nil
}
