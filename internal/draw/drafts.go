package draw

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type draft[T any] struct {
	owner   string
	value   T
	touched time.Time
}

// Drafts keeps unsaved work of each owner between requests. Drafts live in
// process memory only and are lost on restart.
type Drafts[T any] struct {
	mu    sync.Mutex
	items map[string]*draft[T]
	now   func() time.Time
}

func NewDrafts[T any]() *Drafts[T] {
	return &Drafts[T]{items: map[string]*draft[T]{}, now: time.Now}
}

// Put stores v for owner and returns its id.
func (d *Drafts[T]) Put(owner string, v T) string {
	id := uuid.NewString()
	d.mu.Lock()
	d.items[id] = &draft[T]{owner: owner, value: v, touched: d.now()}
	d.mu.Unlock()
	return id
}

// With runs fn on the draft while holding the registry lock, so concurrent
// requests on one draft are serialized.
func (d *Drafts[T]) With(owner, id string, fn func(T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	it, ok := d.items[id]
	if !ok || it.owner != owner {
		return ErrDraftNotFound
	}
	it.touched = d.now()
	return fn(it.value)
}

func (d *Drafts[T]) Delete(owner, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	it, ok := d.items[id]
	if !ok || it.owner != owner {
		return false
	}
	delete(d.items, id)
	return true
}

func (d *Drafts[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Sweep drops drafts untouched for longer than ttl.
func (d *Drafts[T]) Sweep(ttl time.Duration) int {
	cutoff := d.now().Add(-ttl)
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for id, it := range d.items {
		if it.touched.Before(cutoff) {
			delete(d.items, id)
			n++
		}
	}
	return n
}
