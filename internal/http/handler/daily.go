package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"mak/internal/catalog"
	"mak/internal/daily"
	"mak/internal/draw"
	"mak/internal/share"
)

type DailyHandler struct {
	*Scope
	Catalog *catalog.Holder
	Flows   *draw.Drafts[*daily.Flow]
	Link    string
}

// catalogOrNil lets daily work on built-in cards while decks are missing.
func (h *DailyHandler) catalogOrNil() *catalog.Catalog {
	c, err := h.Catalog.Current()
	if err != nil {
		return nil
	}
	return c
}

func (h *DailyHandler) service(r *http.Request) (*daily.Service, func()) {
	a, _, unlock := h.open(r)
	return daily.NewService(a).WithClock(h.now), unlock
}

// Card returns the card of the day for ?date=YYYY-MM-DD&deck=id.
func (h *DailyHandler) Card(w http.ResponseWriter, r *http.Request) {
	svc, unlock := h.service(r)
	defer unlock()

	cat := h.catalogOrNil()
	date := r.URL.Query().Get("date")
	if date == "" {
		date = svc.Today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	deckID := strings.TrimSpace(r.URL.Query().Get("deck"))
	if deckID == "" {
		deckID = svc.SelectedDeck(r.Context(), cat)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dateISO": date,
		"deckId":  deckID,
		"card":    daily.CardOfDay(cat, date, deckID),
	})
}

func (h *DailyHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	svc, unlock := h.service(r)
	defer unlock()
	writeJSON(w, http.StatusOK, map[string]any{"deckId": svc.SelectedDeck(r.Context(), h.catalogOrNil())})
}

type deckReq struct {
	DeckID string `json:"deckId"`
}

func (h *DailyHandler) PutDeck(w http.ResponseWriter, r *http.Request) {
	var req deckReq
	if !decode(w, r, &req) {
		return
	}
	svc, unlock := h.service(r)
	defer unlock()

	err := svc.SelectDeck(r.Context(), h.catalogOrNil(), req.DeckID)
	switch {
	case errors.Is(err, catalog.ErrDeckNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		storageFailed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deckId": req.DeckID})
}

type flowView struct {
	ID string `json:"id"`
	*daily.Flow
	CanContinue bool `json:"canContinue"`
}

func viewFlow(id string, f *daily.Flow) flowView {
	return flowView{ID: id, Flow: f, CanContinue: f.CanContinue()}
}

func (h *DailyHandler) StartFlow(w http.ResponseWriter, r *http.Request) {
	var req deckReq
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	svc, unlock := h.service(r)
	f := svc.Start(r.Context(), h.catalogOrNil(), strings.TrimSpace(req.DeckID))
	unlock()

	id := h.Flows.Put(ownerID(r), f)
	writeJSON(w, http.StatusCreated, viewFlow(id, f))
}

func (h *DailyHandler) GetFlow(w http.ResponseWriter, r *http.Request) {
	h.withFlow(w, r, func(id string, f *daily.Flow) error {
		writeJSON(w, http.StatusOK, viewFlow(id, f))
		return nil
	})
}

type answersPatch struct {
	A1        *string `json:"a1"`
	A2        *string `json:"a2"`
	A3        *string `json:"a3"`
	MicroStep *string `json:"microStep"`
	Summary   *string `json:"summary"`
}

func (h *DailyHandler) PatchFlow(w http.ResponseWriter, r *http.Request) {
	var p answersPatch
	if !decode(w, r, &p) {
		return
	}
	h.withFlow(w, r, func(id string, f *daily.Flow) error {
		for dst, src := range map[*string]*string{
			&f.Answers.A1: p.A1, &f.Answers.A2: p.A2, &f.Answers.A3: p.A3,
			&f.Answers.MicroStep: p.MicroStep, &f.Answers.Summary: p.Summary,
		} {
			if src != nil {
				*dst = *src
			}
		}
		writeJSON(w, http.StatusOK, viewFlow(id, f))
		return nil
	})
}

func (h *DailyHandler) Draw(w http.ResponseWriter, r *http.Request) {
	h.withFlow(w, r, func(id string, f *daily.Flow) error {
		if err := f.Draw(); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, viewFlow(id, f))
		return nil
	})
}

func (h *DailyHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.withFlow(w, r, func(id string, f *daily.Flow) error {
		f.Back()
		writeJSON(w, http.StatusOK, viewFlow(id, f))
		return nil
	})
}

// Next advances the flow; reaching done stores the journal entry.
func (h *DailyHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.withFlow(w, r, func(id string, f *daily.Flow) error {
		svc, unlock := h.service(r)
		defer unlock()

		entry, err := svc.Advance(r.Context(), f)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]any{"flow": viewFlow(id, f), "entry": entry})
		return nil
	})
}

func (h *DailyHandler) withFlow(w http.ResponseWriter, r *http.Request, fn func(id string, f *daily.Flow) error) {
	id := chi.URLParam(r, "id")
	err := h.Flows.With(ownerID(r), id, func(f *daily.Flow) error { return fn(id, f) })
	switch {
	case err == nil:
	case errors.Is(err, draw.ErrDraftNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, daily.ErrStepIncomplete), errors.Is(err, daily.ErrFlowFinished):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, daily.ErrNotStored):
		storageFailed(w)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func (h *DailyHandler) Entries(w http.ResponseWriter, r *http.Request) {
	svc, unlock := h.service(r)
	defer unlock()
	writeJSON(w, http.StatusOK, map[string]any{"entries": svc.Journal().Entries(r.Context())})
}

func (h *DailyHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	svc, unlock := h.service(r)
	defer unlock()
	if !svc.Journal().Remove(r.Context(), chi.URLParam(r, "id")) {
		storageFailed(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ShareEntry renders an entry as text. The id "latest" picks the newest one
// and works on an empty journal too.
func (h *DailyHandler) ShareEntry(w http.ResponseWriter, r *http.Request) {
	svc, unlock := h.service(r)
	defer unlock()

	id := chi.URLParam(r, "id")
	var entry *daily.Entry
	if id == "latest" {
		if all := svc.Journal().Entries(r.Context()); len(all) > 0 {
			entry = &all[0]
		}
	} else {
		e, ok := svc.Journal().Entry(r.Context(), id)
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		entry = &e
	}

	resp := map[string]any{"text": share.DailyExport(entry, h.Link)}
	if entry != nil {
		resp["short"] = share.DailyCard(entry.Card.Title, entry.Summary, h.Link)
	}
	writeJSON(w, http.StatusOK, resp)
}
