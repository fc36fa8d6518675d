package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mak/internal/catalog"
)

const indexJSON = `{"decks":[
	{"id":"base","name":"Base","description":"From index","emoji":"🃏","isPremium":false,"file":"/decks/base.json"},
	{"id":"ihavemyself","name":"I have myself","description":"Premium","emoji":"🌿","isPremium":true,"file":"decks/ihavemyself.json"}
]}`

const baseDeckJSON = `{"id":"base","name":"Base","emoji":"🃏","cardCount":2,"description":"From deck",
	"cards":[{"id":"c1","imageUrl":"/img/c1.png","keywords":["sun"]},{"id":"c2","imageUrl":"/img/c2.png","keywords":[]}]}`

const premiumDeckJSON = `{"id":"ihavemyself","name":"I have myself","emoji":"🌿","cardCount":5,
	"cards":[{"id":"c1","imageUrl":"/img/i1.png","keywords":["me"]}]}`

func contentServer(t *testing.T, routes map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newLoader(srv *httptest.Server, partial bool) *catalog.Loader {
	return &catalog.Loader{
		Client:       srv.Client(),
		BaseURL:      srv.URL,
		AllowPartial: partial,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestLoadDecks_MergesIndexMetadata(t *testing.T) {
	srv, _ := contentServer(t, map[string]string{
		"/decks/index.json":       indexJSON,
		"/decks/base.json":        baseDeckJSON,
		"/decks/ihavemyself.json": premiumDeckJSON,
	})

	decks, err := newLoader(srv, false).LoadDecks(context.Background())
	require.NoError(t, err)
	require.Len(t, decks, 2)

	assert.Equal(t, "base", decks[0].ID)
	assert.Equal(t, "From index", decks[0].Description)
	assert.False(t, decks[0].IsPremium)
	assert.Len(t, decks[0].Cards, 2)
	assert.False(t, decks[0].CountMismatch())

	assert.Equal(t, "ihavemyself", decks[1].ID)
	assert.True(t, decks[1].IsPremium)
	assert.True(t, decks[1].CountMismatch(), "cardCount drift is kept, not corrected")
	assert.Equal(t, 5, decks[1].CardCount)
}

func TestLoadDecks_IndexFailure(t *testing.T) {
	srv, _ := contentServer(t, map[string]string{})
	_, err := newLoader(srv, false).LoadDecks(context.Background())
	assert.ErrorIs(t, err, catalog.ErrIndexFetch)
}

func TestLoadDecks_IndexNotJSON(t *testing.T) {
	srv, _ := contentServer(t, map[string]string{"/decks/index.json": "<html>"})
	_, err := newLoader(srv, false).LoadDecks(context.Background())
	assert.ErrorIs(t, err, catalog.ErrIndexFetch)
}

func TestLoadDecks_OneDeckFailsAbortsAll(t *testing.T) {
	srv, _ := contentServer(t, map[string]string{
		"/decks/index.json": indexJSON,
		"/decks/base.json":  baseDeckJSON,
	})
	decks, err := newLoader(srv, false).LoadDecks(context.Background())
	assert.ErrorIs(t, err, catalog.ErrDeckFetch)
	assert.Nil(t, decks)
}

func TestLoadDecks_PartialOmitsFailedDecks(t *testing.T) {
	srv, _ := contentServer(t, map[string]string{
		"/decks/index.json": indexJSON,
		"/decks/base.json":  baseDeckJSON,
	})
	decks, err := newLoader(srv, true).LoadDecks(context.Background())
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "base", decks[0].ID)
}

func TestLoadDecks_BaseURLWithPrefix(t *testing.T) {
	srv, _ := contentServer(t, map[string]string{
		"/app/decks/index.json": `{"decks":[{"id":"base","file":"decks/base.json"}]}`,
		"/app/decks/base.json":  baseDeckJSON,
	})
	l := newLoader(srv, false)
	l.BaseURL = srv.URL + "/app"

	decks, err := l.LoadDecks(context.Background())
	require.NoError(t, err)
	require.Len(t, decks, 1)
}

type stubLoader struct {
	decks []catalog.Deck
	err   error
}

func (s *stubLoader) LoadDecks(context.Context) ([]catalog.Deck, error) { return s.decks, s.err }

func TestHolder_ReloadLifecycle(t *testing.T) {
	stub := &stubLoader{err: catalog.ErrIndexFetch}
	h := catalog.NewHolder(stub)

	_, err := h.Current()
	assert.ErrorIs(t, err, catalog.ErrNotLoaded)

	assert.ErrorIs(t, h.Reload(context.Background()), catalog.ErrIndexFetch)
	_, err = h.Current()
	assert.ErrorIs(t, err, catalog.ErrIndexFetch)

	stub.err = nil
	stub.decks = []catalog.Deck{{ID: "base", Name: "Base"}}
	require.NoError(t, h.Reload(context.Background()))

	c, err := h.Current()
	require.NoError(t, err)
	d, err := c.Deck("base")
	require.NoError(t, err)
	assert.Equal(t, "Base", d.Name)
	_, err = c.Deck("missing")
	assert.ErrorIs(t, err, catalog.ErrDeckNotFound)
	assert.NotEmpty(t, c.Spreads)
	assert.NotEmpty(t, c.Practices)
	assert.NoError(t, h.Err())

	stub.err = catalog.ErrDeckFetch
	assert.ErrorIs(t, h.Reload(context.Background()), catalog.ErrDeckFetch)
	kept, err := h.Current()
	require.NoError(t, err, "last good snapshot survives a failed reload")
	assert.Same(t, c, kept)
	assert.ErrorIs(t, h.Err(), catalog.ErrDeckFetch)
}
