package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Adapter is the only way the rest of the code touches persisted keys.
// Every operation fails soft: store errors are logged and reported as a
// missing value or a false success flag.
type Adapter struct {
	store  Store
	owner  string
	logger *slog.Logger
}

func NewAdapter(store Store, owner string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{store: store, owner: owner, logger: logger}
}

func (a *Adapter) Owner() string { return a.owner }

func (a *Adapter) GetRaw(ctx context.Context, key string) (string, bool) {
	v, ok, err := a.store.Get(ctx, a.owner, key)
	if err != nil {
		a.logger.WarnContext(ctx, "storage get failed", "owner", a.owner, "key", key, "error", err)
		return "", false
	}
	return v, ok
}

func (a *Adapter) SetRaw(ctx context.Context, key, value string) bool {
	if err := a.store.Set(ctx, a.owner, key, value); err != nil {
		a.logger.WarnContext(ctx, "storage set failed", "owner", a.owner, "key", key, "error", err)
		return false
	}
	return true
}

func (a *Adapter) Remove(ctx context.Context, key string) bool {
	if err := a.store.Delete(ctx, a.owner, key); err != nil {
		a.logger.WarnContext(ctx, "storage remove failed", "owner", a.owner, "key", key, "error", err)
		return false
	}
	return true
}

func (a *Adapter) SetJSON(ctx context.Context, key string, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		a.logger.WarnContext(ctx, "storage encode failed", "key", key, "error", err)
		return false
	}
	return a.SetRaw(ctx, key, string(b))
}

// GetJSON decodes the value under key into T. A missing, empty or
// unparsable value yields fallback.
func GetJSON[T any](ctx context.Context, a *Adapter, key string, fallback T) T {
	raw, ok := a.GetRaw(ctx, key)
	if !ok || raw == "" {
		return fallback
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		a.logger.WarnContext(ctx, "storage decode failed", "owner", a.owner, "key", key, "error", err)
		return fallback
	}
	return out
}

// Locks serialises load-modify-write cycles per owner within the process.
// Writers in other processes still race; the last snapshot wins.
type Locks struct {
	m sync.Map
}

func (l *Locks) Lock(owner string) func() {
	v, _ := l.m.LoadOrStore(owner, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
