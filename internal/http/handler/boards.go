package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mak/internal/catalog"
	"mak/internal/draw"
	"mak/internal/journal"
	"mak/internal/practice"
	"mak/internal/settings"
)

// BoardHandler drives unsaved spreads held in Boards.
type BoardHandler struct {
	*Scope
	Catalog *catalog.Holder
	Boards  *draw.Drafts[*draw.Board]
	RNG     draw.RNG
}

type createBoardReq struct {
	DeckID   string `json:"deckId"`
	SpreadID string `json:"spreadId"`
	Question string `json:"question"`
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBoardReq
	if !decode(w, r, &req) {
		return
	}
	c, ok := currentCatalog(w, h.Catalog)
	if !ok {
		return
	}
	deck, err := c.Deck(req.DeckID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	spread, err := c.Spread(req.SpreadID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	b := draw.NewBoard(deck, spread, req.Question, h.RNG)
	h.remember(r, settings.Patch{DeckID: &deck.ID, SpreadID: &spread.ID, Question: &b.Question})
	h.created(w, r, b)
}

type freeDrawReq struct {
	DeckID string `json:"deckId"`
}

func (h *BoardHandler) CreateFree(w http.ResponseWriter, r *http.Request) {
	var req freeDrawReq
	if !decode(w, r, &req) {
		return
	}
	c, ok := currentCatalog(w, h.Catalog)
	if !ok {
		return
	}
	deck, err := c.Deck(req.DeckID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	mode := settings.ModeFree
	h.remember(r, settings.Patch{DeckID: &deck.ID, Mode: &mode})
	h.created(w, r, draw.NewFreeBoard(deck, h.RNG))
}

type startPracticeReq struct {
	Mode journal.PracticeMode `json:"mode"`
}

// StartPractice opens a board from a practice preset.
func (h *BoardHandler) StartPractice(w http.ResponseWriter, r *http.Request) {
	var req startPracticeReq
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	c, ok := currentCatalog(w, h.Catalog)
	if !ok {
		return
	}
	p, found := c.Practice(chi.URLParam(r, "id"))
	if !found {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	preset, err := practice.Start(p, req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := practice.NewBoard(preset, c, h.RNG)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	mode := settings.ModeGuided
	h.remember(r, settings.Patch{DeckID: &b.Deck.ID, SpreadID: &b.Spread.ID, Mode: &mode, Question: &preset.Question})
	id := h.Boards.Put(ownerID(r), b)
	writeJSON(w, http.StatusCreated, map[string]any{
		"board":        b.View(id),
		"preset":       preset,
		"prompts":      practice.Prompts(p, preset.PracticeMode),
		"allowedDecks": practice.AllowedDecks(preset, c.Decks),
	})
}

func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.with(w, r, func(id string, b *draw.Board) error {
		writeJSON(w, http.StatusOK, b.View(id))
		return nil
	})
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.Boards.Delete(ownerID(r), chi.URLParam(r, "id")) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BoardHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.with(w, r, func(id string, b *draw.Board) error {
		if _, err := b.Open(chi.URLParam(r, "positionId")); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, b.View(id))
		return nil
	})
}

// ViewerAction applies one viewer transition named in the path.
func (h *BoardHandler) ViewerAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	h.with(w, r, func(id string, b *draw.Board) error {
		switch action {
		case "close":
			b.CloseViewer()
		case "save":
			if _, err := b.SaveViewer(); err != nil {
				return err
			}
		default:
			v, err := b.Viewer()
			if err != nil {
				return err
			}
			if err := viewerStep(v, action); err != nil {
				return err
			}
		}
		writeJSON(w, http.StatusOK, b.View(id))
		return nil
	})
}

var errUnknownAction = errors.New("unknown action")

func viewerStep(v *draw.Viewer, action string) error {
	switch action {
	case "draw":
		return v.Draw()
	case "redraw":
		return v.Redraw()
	case "flip":
		return v.Flip()
	case "next":
		return v.Next()
	case "back":
		return v.Back()
	}
	return errUnknownAction
}

type noteReq struct {
	Note string `json:"note"`
}

func (h *BoardHandler) SetNote(w http.ResponseWriter, r *http.Request) {
	var req noteReq
	if !decode(w, r, &req) {
		return
	}
	h.with(w, r, func(id string, b *draw.Board) error {
		v, err := b.Viewer()
		if err != nil {
			return err
		}
		if err := v.SetNote(req.Note); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, b.View(id))
		return nil
	})
}

type saveBoardReq struct {
	Takeaway string `json:"takeaway"`
}

// Save stores the board as a session, or as a free card for free draws.
// A saved spread board is discarded; a free board stays open for another draw.
func (h *BoardHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveBoardReq
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	boardID := chi.URLParam(r, "id")
	var saved any
	var drop bool
	h.with(w, r, func(_ string, b *draw.Board) error {
		a, _, unlock := h.open(r)
		defer unlock()
		repo := journal.NewRepository(a)
		repo.Load(r.Context())

		if b.IsFree() {
			in, err := b.BuildFreeCard()
			if err != nil {
				return err
			}
			fc, ok := repo.AddFreeCard(r.Context(), in)
			if !ok {
				return errStorage
			}
			b.Reset()
			saved = fc
			return nil
		}

		s, err := b.BuildSession(req.Takeaway, uuidString(), h.now())
		if err != nil {
			return err
		}
		if !repo.AddSession(r.Context(), s) {
			return errStorage
		}
		saved, drop = s, true
		return nil
	})
	if saved == nil {
		return
	}
	if drop {
		h.Boards.Delete(ownerID(r), boardID)
	}
	writeJSON(w, http.StatusCreated, saved)
}

// with runs fn on the caller's board and maps draw errors to statuses.
func (h *BoardHandler) with(w http.ResponseWriter, r *http.Request, fn func(id string, b *draw.Board) error) {
	id := chi.URLParam(r, "id")
	err := h.Boards.With(ownerID(r), id, func(b *draw.Board) error { return fn(id, b) })
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, draw.ErrDraftNotFound), errors.Is(err, draw.ErrUnknownPosition):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, draw.ErrWrongStep), errors.Is(err, draw.ErrNoActiveViewer),
		errors.Is(err, draw.ErrNothingToSave), errors.Is(err, draw.ErrNotFreeBoard):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, draw.ErrTooLong), errors.Is(err, errUnknownAction):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, draw.ErrEmptyDeck):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, errStorage):
		storageFailed(w)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func (h *BoardHandler) created(w http.ResponseWriter, r *http.Request, b *draw.Board) {
	id := h.Boards.Put(ownerID(r), b)
	writeJSON(w, http.StatusCreated, b.View(id))
}

// remember keeps the wizard choices for the next visit. Failures only log.
func (h *BoardHandler) remember(r *http.Request, p settings.Patch) {
	a, _, unlock := h.open(r)
	defer unlock()
	if _, err := settings.Update(r.Context(), a, p); err != nil {
		h.Logger.Warn("settings not saved", "owner", ownerID(r), "err", err)
	}
}
