package journal

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"mak/internal/storage"
)

// Repository holds the two persisted journal collections of one owner.
// State is loaded once with Load; every mutation rewrites the whole
// collection through the storage adapter.
type Repository struct {
	store     *storage.Adapter
	now       func() time.Time
	newID     func() string
	sessions  []Session
	freeCards []FreeCard
}

type Option func(*Repository)

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithIDs(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

func NewRepository(store *storage.Adapter, opts ...Option) *Repository {
	r := &Repository{
		store:     store,
		now:       time.Now,
		newID:     uuid.NewString,
		sessions:  []Session{},
		freeCards: []FreeCard{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Load reads both collections, dropping stored records that no longer pass
// the structural check.
func (r *Repository) Load(ctx context.Context) {
	r.sessions = FilterValidSessions(storage.GetJSON[any](ctx, r.store, storage.KeySessions, []any{}))
	r.freeCards = FilterValidFreeCards(storage.GetJSON[any](ctx, r.store, storage.KeyFreeCards, []any{}))
}

// Sessions returns the sessions most recent first.
func (r *Repository) Sessions() []Session {
	out := slices.Clone(r.sessions)
	slices.SortStableFunc(out, func(a, b Session) int { return compareDesc(a.CreatedAt, b.CreatedAt) })
	return out
}

// FreeCards returns the free cards most recent first.
func (r *Repository) FreeCards() []FreeCard {
	out := slices.Clone(r.freeCards)
	slices.SortStableFunc(out, func(a, b FreeCard) int { return compareDesc(a.CreatedAt, b.CreatedAt) })
	return out
}

func (r *Repository) Session(id string) (Session, bool) {
	for _, s := range r.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return Session{}, false
}

// AddSession prepends s. The result reports whether the snapshot was stored.
func (r *Repository) AddSession(ctx context.Context, s Session) bool {
	if s.Cards == nil {
		s.Cards = []SessionCard{}
	}
	return r.saveSessions(ctx, append([]Session{s}, r.sessions...))
}

func (r *Repository) RemoveSession(ctx context.Context, id string) bool {
	next := slices.DeleteFunc(slices.Clone(r.sessions), func(s Session) bool { return s.ID == id })
	return r.saveSessions(ctx, next)
}

func (r *Repository) AddFreeCard(ctx context.Context, in FreeCardInput) (FreeCard, bool) {
	kw := in.Keywords
	if kw == nil {
		kw = []string{}
	}
	c := FreeCard{
		ID:        "free-" + r.newID(),
		CardID:    in.CardID,
		ImageURL:  in.ImageURL,
		Keywords:  kw,
		Note:      in.Note,
		CreatedAt: r.now().UnixMilli(),
	}
	return c, r.saveFreeCards(ctx, append([]FreeCard{c}, r.freeCards...))
}

func (r *Repository) RemoveFreeCard(ctx context.Context, id string) bool {
	next := slices.DeleteFunc(slices.Clone(r.freeCards), func(c FreeCard) bool { return c.ID == id })
	return r.saveFreeCards(ctx, next)
}

// Clear empties both collections once confirm agrees. There is no undo.
func (r *Repository) Clear(ctx context.Context, confirm func() bool) bool {
	if confirm == nil || !confirm() {
		return false
	}
	okS := r.saveSessions(ctx, []Session{})
	okF := r.saveFreeCards(ctx, []FreeCard{})
	return okS && okF
}

func (r *Repository) saveSessions(ctx context.Context, next []Session) bool {
	r.sessions = next
	return r.store.SetJSON(ctx, storage.KeySessions, next)
}

func (r *Repository) saveFreeCards(ctx context.Context, next []FreeCard) bool {
	r.freeCards = next
	return r.store.SetJSON(ctx, storage.KeyFreeCards, next)
}

func compareDesc(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
