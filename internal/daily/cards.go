package daily

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"mak/internal/catalog"
)

const commonPrompt = "What association comes first?"

// Card is the daily view of a deck card.
type Card struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
	Image  string `json:"image,omitempty"`
}

// DefaultCards is used when the selected deck is unknown or empty.
var DefaultCards = []Card{
	{ID: "c1", Title: "Focus", Prompt: "What do I need to remember today?"},
	{ID: "c2", Title: "Resource", Prompt: "Where is my support right now?"},
	{ID: "c3", Title: "Boundaries", Prompt: "What should be softer, and what firmer?"},
	{ID: "c4", Title: "Movement", Prompt: "What is the smallest step I can take?"},
	{ID: "c5", Title: "Let go", Prompt: "What am I holding out of habit?"},
	{ID: "c6", Title: "Courage", Prompt: "Where can I be a little braver?"},
	{ID: "c7", Title: "Clarity", Prompt: "What becomes clear if I stop rushing?"},
	{ID: "c8", Title: "Care", Prompt: "How can I support myself today?"},
}

var digits = regexp.MustCompile(`\d+`)

func cardNumber(id string) (int, bool) {
	m := digits.FindString(id)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

// CardsFromDeck orders deck cards by the number in their id ("c22" is 22),
// falling back to plain id order, and titles them by position.
func CardsFromDeck(deck catalog.Deck) []Card {
	if len(deck.Cards) == 0 {
		return slices.Clone(DefaultCards)
	}
	sorted := slices.Clone(deck.Cards)
	slices.SortStableFunc(sorted, func(a, b catalog.Card) int {
		na, okA := cardNumber(a.ID)
		nb, okB := cardNumber(b.ID)
		if okA && okB {
			return na - nb
		}
		return strings.Compare(a.ID, b.ID)
	})

	out := make([]Card, len(sorted))
	for i, c := range sorted {
		out[i] = Card{
			ID:     c.ID,
			Title:  fmt.Sprintf("Card %d", i+1),
			Prompt: commonPrompt,
			Image:  c.ImageURL,
		}
	}
	return out
}

// Pick returns the card of the day. An empty list falls back to DefaultCards.
func Pick(dateISO, deckID string, cards []Card) Card {
	if len(cards) == 0 {
		cards = DefaultCards
	}
	return cards[Index(dateISO, deckID, len(cards))]
}
