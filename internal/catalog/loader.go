package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
)

const indexPath = "decks/index.json"

// Loader fetches decks from the static content host.
type Loader struct {
	Client  *http.Client
	BaseURL string
	// AllowPartial omits decks whose file fails to load instead of failing
	// the whole catalog.
	AllowPartial bool
	Logger       *slog.Logger
}

// LoadDecks fetches the index and then every deck file in parallel. Index
// metadata (description, premium flag) overrides the deck payload. Decks are
// returned in index order.
func (l *Loader) LoadDecks(ctx context.Context) ([]Deck, error) {
	base, err := l.base()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexFetch, err)
	}

	var idx Index
	if err := l.getJSON(ctx, resolve(base, indexPath), &idx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexFetch, err)
	}

	decks := make([]Deck, len(idx.Decks))
	failed := make([]error, len(idx.Decks))

	if l.AllowPartial {
		var g errgroup.Group
		for i, meta := range idx.Decks {
			g.Go(func() error {
				decks[i], failed[i] = l.fetchDeck(ctx, base, meta)
				return nil
			})
		}
		_ = g.Wait()

		out := make([]Deck, 0, len(decks))
		for i, d := range decks {
			if failed[i] != nil {
				l.logger().WarnContext(ctx, "deck omitted from catalog", "deck", idx.Decks[i].ID, "error", failed[i])
				continue
			}
			out = append(out, d)
		}
		l.warnMismatches(ctx, out)
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, meta := range idx.Decks {
		g.Go(func() error {
			d, err := l.fetchDeck(gctx, base, meta)
			if err != nil {
				return err
			}
			decks[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	l.warnMismatches(ctx, decks)
	return decks, nil
}

func (l *Loader) fetchDeck(ctx context.Context, base *url.URL, meta IndexItem) (Deck, error) {
	var d Deck
	if err := l.getJSON(ctx, resolve(base, meta.File), &d); err != nil {
		return Deck{}, fmt.Errorf("%w: %s: %w", ErrDeckFetch, meta.ID, err)
	}
	d.Description = meta.Description
	d.IsPremium = meta.IsPremium
	return d, nil
}

func (l *Loader) getJSON(ctx context.Context, target string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := l.client().Do(req)
	if err != nil {
		return fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("GET %s: status %d", target, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}

func (l *Loader) warnMismatches(ctx context.Context, decks []Deck) {
	for _, d := range decks {
		if d.CountMismatch() {
			l.logger().WarnContext(ctx, "deck cardCount does not match cards",
				"deck", d.ID, "card_count", d.CardCount, "cards", len(d.Cards))
		}
	}
}

func (l *Loader) base() (*url.URL, error) {
	raw := l.BaseURL
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return url.Parse(raw)
}

func (l *Loader) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return http.DefaultClient
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func resolve(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return base.String() + ref
	}
	return base.ResolveReference(u).String()
}
