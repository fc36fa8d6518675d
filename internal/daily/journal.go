package daily

import (
	"context"
	"slices"

	"mak/internal/storage"
)

// Entry is one completed daily flow.
type Entry struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	CreatedAt int64  `json:"createdAt"`
	DateISO   string `json:"dateISO"`
	Card      Card   `json:"card"`
	A1        string `json:"a1"`
	A2        string `json:"a2"`
	A3        string `json:"a3"`
	MicroStep string `json:"microStep"`
	Summary   string `json:"summary"`
}

const KindDaily = "daily"

// Journal is the daily entry collection, stored apart from sessions.
type Journal struct {
	store *storage.Adapter
}

func NewJournal(store *storage.Adapter) *Journal {
	return &Journal{store: store}
}

// Entries returns the stored entries, newest first as written.
func (j *Journal) Entries(ctx context.Context) []Entry {
	return storage.GetJSON(ctx, j.store, storage.KeyJournal, []Entry{})
}

func (j *Journal) Entry(ctx context.Context, id string) (Entry, bool) {
	for _, e := range j.Entries(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Append prepends e and rewrites the collection.
func (j *Journal) Append(ctx context.Context, e Entry) bool {
	return j.store.SetJSON(ctx, storage.KeyJournal, append([]Entry{e}, j.Entries(ctx)...))
}

func (j *Journal) Remove(ctx context.Context, id string) bool {
	next := slices.DeleteFunc(j.Entries(ctx), func(e Entry) bool { return e.ID == id })
	return j.store.SetJSON(ctx, storage.KeyJournal, next)
}
