package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mak/internal/storage"
)

type brokenStore struct{}

var errQuota = errors.New("quota exceeded")

func (brokenStore) Get(context.Context, string, string) (string, bool, error) {
	return "", false, errQuota
}
func (brokenStore) Set(context.Context, string, string, string) error { return errQuota }
func (brokenStore) Delete(context.Context, string, string) error      { return errQuota }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAdapter_RawRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := storage.NewAdapter(storage.NewMemoryStore(), "owner-1", quietLogger())

	_, ok := a.GetRaw(ctx, storage.KeyDeck)
	assert.False(t, ok)

	require.True(t, a.SetRaw(ctx, storage.KeyDeck, "base"))
	v, ok := a.GetRaw(ctx, storage.KeyDeck)
	require.True(t, ok)
	assert.Equal(t, "base", v)

	require.True(t, a.Remove(ctx, storage.KeyDeck))
	_, ok = a.GetRaw(ctx, storage.KeyDeck)
	assert.False(t, ok)
}

func TestAdapter_OwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	a := storage.NewAdapter(store, "a", quietLogger())
	b := storage.NewAdapter(store, "b", quietLogger())

	require.True(t, a.SetRaw(ctx, storage.KeyDeck, "base"))
	_, ok := b.GetRaw(ctx, storage.KeyDeck)
	assert.False(t, ok)
}

func TestGetJSON_Fallbacks(t *testing.T) {
	ctx := context.Background()
	a := storage.NewAdapter(storage.NewMemoryStore(), "o", quietLogger())
	fallback := []string{"fallback"}

	assert.Equal(t, fallback, storage.GetJSON(ctx, a, "missing", fallback))

	require.True(t, a.SetRaw(ctx, "empty", ""))
	assert.Equal(t, fallback, storage.GetJSON(ctx, a, "empty", fallback))

	require.True(t, a.SetRaw(ctx, "broken", "{not json"))
	assert.Equal(t, fallback, storage.GetJSON(ctx, a, "broken", fallback))

	require.True(t, a.SetJSON(ctx, "ok", []string{"x", "y"}))
	assert.Equal(t, []string{"x", "y"}, storage.GetJSON(ctx, a, "ok", fallback))
}

func TestAdapter_FailsSoft(t *testing.T) {
	ctx := context.Background()
	a := storage.NewAdapter(brokenStore{}, "o", quietLogger())

	_, ok := a.GetRaw(ctx, storage.KeySessions)
	assert.False(t, ok)
	assert.False(t, a.SetRaw(ctx, storage.KeySessions, "[]"))
	assert.False(t, a.SetJSON(ctx, storage.KeySessions, []int{1}))
	assert.False(t, a.Remove(ctx, storage.KeySessions))
	assert.Equal(t, 7, storage.GetJSON(ctx, a, storage.KeySessions, 7))
}

func TestSetJSON_UnencodableValue(t *testing.T) {
	a := storage.NewAdapter(storage.NewMemoryStore(), "o", quietLogger())
	assert.False(t, a.SetJSON(context.Background(), "k", make(chan int)))
}

func TestLocks_SerialiseSameOwner(t *testing.T) {
	var locks storage.Locks
	counter := 0

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("owner")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}
