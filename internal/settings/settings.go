package settings

import (
	"context"
	"errors"

	"mak/internal/storage"
)

type Mode string

const (
	ModeQuick  Mode = "quick"
	ModeGuided Mode = "guided"
	ModeFree   Mode = "free"
)

var (
	ErrInvalidMode = errors.New("mode must be quick, guided or free")
	ErrNotStored   = errors.New("settings could not be stored")
)

func (m Mode) Valid() bool {
	switch m {
	case ModeQuick, ModeGuided, ModeFree:
		return true
	}
	return false
}

// Last is what the spread wizard remembers between visits.
type Last struct {
	DeckID   string `json:"deckId,omitempty"`
	SpreadID string `json:"spreadId,omitempty"`
	Mode     Mode   `json:"mode,omitempty"`
	Question string `json:"question,omitempty"`
}

// Patch carries partial changes; nil fields are kept.
type Patch struct {
	DeckID   *string `json:"deckId"`
	SpreadID *string `json:"spreadId"`
	Mode     *Mode   `json:"mode"`
	Question *string `json:"question"`
}

// Load reads the current settings. Data written under the older key is used
// until the first update.
func Load(ctx context.Context, a *storage.Adapter) Last {
	if _, ok := a.GetRaw(ctx, storage.KeyLastV3); ok {
		return storage.GetJSON(ctx, a, storage.KeyLastV3, Last{})
	}
	return storage.GetJSON(ctx, a, storage.KeyLastV2, Last{})
}

// EffectiveMode is the stored mode or guided.
func (l Last) EffectiveMode() Mode {
	if l.Mode.Valid() {
		return l.Mode
	}
	return ModeGuided
}

// Update merges p into the stored settings and writes them back.
func Update(ctx context.Context, a *storage.Adapter, p Patch) (Last, error) {
	if p.Mode != nil && !p.Mode.Valid() {
		return Last{}, ErrInvalidMode
	}
	cur := Load(ctx, a)
	if p.DeckID != nil {
		cur.DeckID = *p.DeckID
	}
	if p.SpreadID != nil {
		cur.SpreadID = *p.SpreadID
	}
	if p.Mode != nil {
		cur.Mode = *p.Mode
	}
	if p.Question != nil {
		cur.Question = *p.Question
	}
	if !a.SetJSON(ctx, storage.KeyLastV3, cur) {
		return cur, ErrNotStored
	}
	return cur, nil
}
