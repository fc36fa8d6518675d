package catalog

import (
	"context"
	"sync"
	"time"
)

// Catalog is an immutable snapshot of the reference data.
type Catalog struct {
	Decks     []Deck
	Spreads   []Spread
	Practices []Practice
	LoadedAt  time.Time
}

func (c *Catalog) Deck(id string) (Deck, error) {
	for _, d := range c.Decks {
		if d.ID == id {
			return d, nil
		}
	}
	return Deck{}, ErrDeckNotFound
}

func (c *Catalog) Spread(id string) (Spread, error) {
	for _, s := range c.Spreads {
		if s.ID == id {
			return s, nil
		}
	}
	return Spread{}, ErrSpreadNotFound
}

func (c *Catalog) Practice(id string) (Practice, bool) {
	for _, p := range c.Practices {
		if p.ID == id {
			return p, true
		}
	}
	return Practice{}, false
}

// DeckLoader is satisfied by *Loader.
type DeckLoader interface {
	LoadDecks(ctx context.Context) ([]Deck, error)
}

// Holder keeps the current catalog and the error of the last load. A failed
// load is only retried by an explicit Reload. A failed reload keeps serving
// the last good snapshot.
type Holder struct {
	loader DeckLoader

	mu      sync.RWMutex
	current *Catalog
	lastErr error
}

func NewHolder(l DeckLoader) *Holder {
	return &Holder{loader: l, lastErr: ErrNotLoaded}
}

// Reload fetches decks and rebuilds the snapshot. On failure the previous
// snapshot, if any, stays current.
func (h *Holder) Reload(ctx context.Context) error {
	sp, err := Spreads()
	if err != nil {
		return h.fail(err)
	}
	pr, err := Practices()
	if err != nil {
		return h.fail(err)
	}
	decks, err := h.loader.LoadDecks(ctx)
	if err != nil {
		return h.fail(err)
	}

	h.mu.Lock()
	h.current = &Catalog{Decks: decks, Spreads: sp, Practices: pr, LoadedAt: time.Now()}
	h.lastErr = nil
	h.mu.Unlock()
	return nil
}

// Current returns the loaded catalog or the error that prevented loading.
func (h *Holder) Current() (*Catalog, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return nil, h.lastErr
	}
	return h.current, nil
}

func (h *Holder) fail(err error) error {
	h.mu.Lock()
	h.lastErr = err
	h.mu.Unlock()
	return err
}

// Err returns the error of the most recent load, nil after a success.
func (h *Holder) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastErr
}
