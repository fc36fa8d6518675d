package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"mak/internal/catalog"
	"mak/internal/config"
	"mak/internal/daily"
	"mak/internal/draw"
	"mak/internal/http/handler"
	mw "mak/internal/http/middleware"
	"mak/internal/owner"
	"mak/internal/storage"
)

type Deps struct {
	Config  config.Config
	Store   storage.Store
	Locks   *storage.Locks
	JWT     *owner.JWT
	Catalog *catalog.Holder
	Boards  *draw.Drafts[*draw.Board]
	Flows   *draw.Drafts[*daily.Flow]
	RNG     draw.RNG
	Logger  *slog.Logger

	// BotWebhook is mounted at Config.BotWebhookPath when set.
	BotWebhook http.Handler
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logging(d.Logger))
	r.Use(chimw.Recoverer)

	if len(d.Config.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(d.Config.CORSAllowedOrigins, d.Config.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if d.BotWebhook != nil {
		r.Post(d.Config.BotWebhookPath, d.BotWebhook.ServeHTTP)
	}

	scope := &handler.Scope{Store: d.Store, Locks: d.Locks, Logger: d.Logger}
	link := d.Config.MiniAppLink

	oh := &handler.OwnerHandler{JWT: d.JWT}
	ch := &handler.CatalogHandler{Catalog: d.Catalog, Logger: d.Logger}
	jh := &handler.JournalHandler{Scope: scope, Link: link}
	bh := &handler.BoardHandler{Scope: scope, Catalog: d.Catalog, Boards: d.Boards, RNG: d.RNG}
	dh := &handler.DailyHandler{Scope: scope, Catalog: d.Catalog, Flows: d.Flows, Link: link}
	sh := &handler.SettingsHandler{Scope: scope}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/owners", oh.Create)

		r.Get("/catalog/decks", ch.Decks)
		r.Get("/catalog/spreads", ch.Spreads)
		r.Get("/practices", ch.Practices)

		r.Group(func(r chi.Router) {
			r.Use(owner.Require(d.JWT))

			r.Post("/catalog/reload", ch.Reload)
			r.Post("/practices/{id}/start", bh.StartPractice)

			r.Get("/sessions", jh.ListSessions)
			r.Post("/sessions", jh.CreateSession)
			r.Get("/sessions/{id}", jh.GetSession)
			r.Delete("/sessions/{id}", jh.DeleteSession)
			r.Get("/sessions/{id}/share", jh.ShareSession)

			r.Get("/free-cards", jh.ListFreeCards)
			r.Delete("/free-cards/{id}", jh.DeleteFreeCard)

			r.Delete("/journal", jh.Clear)
			r.Get("/backup", jh.Export)
			r.Post("/backup", jh.Import)

			r.Post("/boards", bh.Create)
			r.Post("/free-draws", bh.CreateFree)
			r.Route("/boards/{id}", func(r chi.Router) {
				r.Get("/", bh.Get)
				r.Delete("/", bh.Delete)
				r.Post("/positions/{positionId}/open", bh.Open)
				r.Post("/viewer/{action}", bh.ViewerAction)
				r.Put("/viewer/note", bh.SetNote)
				r.Post("/save", bh.Save)
			})

			r.Get("/daily", dh.Card)
			r.Get("/daily/deck", dh.GetDeck)
			r.Put("/daily/deck", dh.PutDeck)
			r.Post("/daily/flows", dh.StartFlow)
			r.Route("/daily/flows/{id}", func(r chi.Router) {
				r.Get("/", dh.GetFlow)
				r.Patch("/", dh.PatchFlow)
				r.Post("/draw", dh.Draw)
				r.Post("/next", dh.Next)
				r.Post("/back", dh.Back)
			})
			r.Get("/daily/entries", dh.Entries)
			r.Delete("/daily/entries/{id}", dh.DeleteEntry)
			r.Get("/daily/entries/{id}/share", dh.ShareEntry)

			r.Get("/settings/last", sh.GetLast)
			r.Patch("/settings/last", sh.PatchLast)
		})
	})

	return r
}
