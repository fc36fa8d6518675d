package daily

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"mak/internal/catalog"
	"mak/internal/storage"
)

const (
	DefaultDeckID = "base"
	dateLayout    = "2006-01-02"
)

var ErrNotStored = errors.New("daily entry could not be stored")

// Service ties the selected deck, card choice and the daily journal of one
// owner together.
type Service struct {
	store   *storage.Adapter
	journal *Journal
	now     func() time.Time
	newID   func() string
}

func NewService(store *storage.Adapter) *Service {
	return &Service{
		store:   store,
		journal: NewJournal(store),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Journal() *Journal { return s.journal }

// Today is the current UTC date as YYYY-MM-DD.
func (s *Service) Today() string {
	return s.now().UTC().Format(dateLayout)
}

// SelectedDeck returns the stored deck id when the catalog knows it.
// Otherwise the first catalog deck is chosen and stored. Without a catalog
// the stored value or DefaultDeckID is used.
func (s *Service) SelectedDeck(ctx context.Context, cat *catalog.Catalog) string {
	stored, _ := s.store.GetRaw(ctx, storage.KeyDeck)
	stored = strings.TrimSpace(stored)

	if cat == nil || len(cat.Decks) == 0 {
		if stored != "" {
			return stored
		}
		return DefaultDeckID
	}
	if _, err := cat.Deck(stored); err == nil {
		return stored
	}
	first := cat.Decks[0].ID
	s.store.SetRaw(ctx, storage.KeyDeck, first)
	return first
}

func (s *Service) SelectDeck(ctx context.Context, cat *catalog.Catalog, deckID string) error {
	deckID = strings.TrimSpace(deckID)
	if cat != nil {
		if _, err := cat.Deck(deckID); err != nil {
			return err
		}
	}
	if !s.store.SetRaw(ctx, storage.KeyDeck, deckID) {
		return ErrNotStored
	}
	return nil
}

// CardOfDay resolves the deck cards (or the defaults) and picks one.
func CardOfDay(cat *catalog.Catalog, dateISO, deckID string) Card {
	var cards []Card
	if cat != nil {
		if d, err := cat.Deck(deckID); err == nil {
			cards = CardsFromDeck(d)
		}
	}
	return Pick(dateISO, deckID, cards)
}

// Start begins a flow for today. An empty deckID uses the selected deck.
func (s *Service) Start(ctx context.Context, cat *catalog.Catalog, deckID string) *Flow {
	if deckID == "" {
		deckID = s.SelectedDeck(ctx, cat)
	}
	date := s.Today()
	return NewFlow(date, deckID, CardOfDay(cat, date, deckID))
}

// Advance moves the flow forward. Reaching done stores exactly one entry per
// flow; going back and forward again does not add another.
func (s *Service) Advance(ctx context.Context, f *Flow) (*Entry, error) {
	// A done flow whose entry failed to store retries the write.
	if f.Step != StepDone || f.Saved {
		if err := f.Next(); err != nil {
			return nil, err
		}
	}
	if f.Step != StepDone || f.Saved {
		return nil, nil
	}

	a := f.Answers
	e := Entry{
		ID:        "daily_" + f.DateISO + "_" + s.newID(),
		Kind:      KindDaily,
		CreatedAt: s.now().UnixMilli(),
		DateISO:   f.DateISO,
		Card:      f.Card,
		A1:        strings.TrimSpace(a.A1),
		A2:        strings.TrimSpace(a.A2),
		A3:        strings.TrimSpace(a.A3),
		MicroStep: strings.TrimSpace(a.MicroStep),
		Summary:   strings.TrimSpace(a.Summary),
	}
	if !s.journal.Append(ctx, e) {
		return nil, ErrNotStored
	}
	f.Saved = true
	return &e, nil
}
