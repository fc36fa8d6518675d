package draw

import (
	"math/rand/v2"
	"slices"
	"strings"
	"unicode/utf8"

	"mak/internal/catalog"
)

const maxNoteLen = 2000

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int
}

// StdRNG delegates to math/rand/v2 (auto-seeded, not reproducible).
type StdRNG struct{}

func (StdRNG) IntN(n int) int { return rand.IntN(n) }

// Step is the state of a position viewer.
type Step string

const (
	StepDraw Step = "draw"
	StepView Step = "view"
	StepNote Step = "note"
)

// Cell is a finalized position.
type Cell struct {
	CardID   string   `json:"cardId"`
	ImageURL string   `json:"imageUrl"`
	Keywords []string `json:"keywords"`
	Note     string   `json:"note"`
}

// Available returns the cards of deck not in used. When every card is used
// the whole deck is eligible again.
func Available(deck catalog.Deck, used map[string]struct{}) []catalog.Card {
	out := make([]catalog.Card, 0, len(deck.Cards))
	for _, c := range deck.Cards {
		if _, taken := used[c.ID]; !taken {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return deck.Cards
	}
	return out
}

// Viewer drives one position through draw, view and note.
type Viewer struct {
	position catalog.SpreadPosition
	deck     catalog.Deck
	used     map[string]struct{}
	rng      RNG

	step    Step
	card    *catalog.Card
	flipped bool
	note    string
}

func NewViewer(pos catalog.SpreadPosition, deck catalog.Deck, used map[string]struct{}, rng RNG) *Viewer {
	return &Viewer{position: pos, deck: deck, used: used, rng: rng, step: StepDraw}
}

func (v *Viewer) Step() Step                        { return v.step }
func (v *Viewer) Position() catalog.SpreadPosition { return v.position }
func (v *Viewer) Flipped() bool                     { return v.flipped }
func (v *Viewer) Note() string                      { return v.note }

func (v *Viewer) Card() (catalog.Card, bool) {
	if v.card == nil {
		return catalog.Card{}, false
	}
	return *v.card, true
}

// Draw picks a card uniformly from the eligible pool and shows it face up.
func (v *Viewer) Draw() error {
	if v.step != StepDraw {
		return ErrWrongStep
	}
	return v.pick()
}

// Redraw replaces the shown card with another one from the eligible pool.
func (v *Viewer) Redraw() error {
	if v.step != StepView {
		return ErrWrongStep
	}
	return v.pick()
}

func (v *Viewer) pick() error {
	pool := Available(v.deck, v.used)
	if len(pool) == 0 {
		return ErrEmptyDeck
	}
	c := pool[v.rng.IntN(len(pool))]
	c.Keywords = slices.Clone(c.Keywords)
	v.card = &c
	v.note = ""
	v.flipped = true
	v.step = StepView
	return nil
}

func (v *Viewer) Flip() error {
	if v.step != StepView {
		return ErrWrongStep
	}
	v.flipped = !v.flipped
	return nil
}

// Next moves from view to note.
func (v *Viewer) Next() error {
	if v.step != StepView || v.card == nil {
		return ErrWrongStep
	}
	v.step = StepNote
	return nil
}

// Back returns from note to view, keeping the note text.
func (v *Viewer) Back() error {
	if v.step != StepNote {
		return ErrWrongStep
	}
	v.step = StepView
	return nil
}

func (v *Viewer) SetNote(note string) error {
	if v.step != StepNote {
		return ErrWrongStep
	}
	if utf8.RuneCountInString(note) > maxNoteLen {
		return ErrTooLong
	}
	v.note = note
	return nil
}

// Save finalizes the position. Only allowed from the note step.
func (v *Viewer) Save() (Cell, error) {
	if v.step != StepNote || v.card == nil {
		return Cell{}, ErrWrongStep
	}
	kw := v.card.Keywords
	if kw == nil {
		kw = []string{}
	}
	return Cell{
		CardID:   v.card.ID,
		ImageURL: v.card.ImageURL,
		Keywords: kw,
		Note:     strings.TrimSpace(v.note),
	}, nil
}
