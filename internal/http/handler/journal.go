package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"mak/internal/journal"
	"mak/internal/share"
)

type JournalHandler struct {
	*Scope
	Link string
}

func (h *JournalHandler) repo(r *http.Request) (*journal.Repository, func()) {
	a, _, unlock := h.open(r)
	repo := journal.NewRepository(a)
	repo.Load(r.Context())
	return repo, unlock
}

func (h *JournalHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	repo, unlock := h.repo(r)
	defer unlock()

	var out []journal.Session
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		out = repo.Search(q)
	} else {
		out = repo.Sessions()
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (h *JournalHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	repo, unlock := h.repo(r)
	defer unlock()

	s, ok := repo.Session(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// CreateSession accepts a session built on the client. It must pass the
// same structural check as imported data.
func (h *JournalHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var raw any
	if !decode(w, r, &raw) {
		return
	}
	valid := journal.FilterValidSessions([]any{raw})
	if len(valid) == 0 {
		http.Error(w, journal.ValidateSession(raw).Err().Error(), http.StatusUnprocessableEntity)
		return
	}

	repo, unlock := h.repo(r)
	defer unlock()
	if !repo.AddSession(r.Context(), valid[0]) {
		storageFailed(w)
		return
	}
	writeJSON(w, http.StatusCreated, valid[0])
}

func (h *JournalHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	repo, unlock := h.repo(r)
	defer unlock()
	if !repo.RemoveSession(r.Context(), chi.URLParam(r, "id")) {
		storageFailed(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JournalHandler) ShareSession(w http.ResponseWriter, r *http.Request) {
	repo, unlock := h.repo(r)
	defer unlock()

	s, ok := repo.Session(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"text": share.Session(s, h.Link)})
}

func (h *JournalHandler) ListFreeCards(w http.ResponseWriter, r *http.Request) {
	repo, unlock := h.repo(r)
	defer unlock()
	writeJSON(w, http.StatusOK, map[string]any{"freeCards": repo.FreeCards()})
}

func (h *JournalHandler) DeleteFreeCard(w http.ResponseWriter, r *http.Request) {
	repo, unlock := h.repo(r)
	defer unlock()
	if !repo.RemoveFreeCard(r.Context(), chi.URLParam(r, "id")) {
		storageFailed(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear wipes sessions and free cards. The caller must pass confirm=true.
func (h *JournalHandler) Clear(w http.ResponseWriter, r *http.Request) {
	confirm := func() bool { return r.URL.Query().Get("confirm") == "true" }
	if !confirm() {
		http.Error(w, "confirmation required", http.StatusConflict)
		return
	}

	repo, unlock := h.repo(r)
	defer unlock()
	if !repo.Clear(r.Context(), confirm) {
		storageFailed(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JournalHandler) Export(w http.ResponseWriter, r *http.Request) {
	repo, unlock := h.repo(r)
	defer unlock()

	body, err := repo.ExportJSON()
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+journal.BackupFileName(h.now())+`"`)
	_, _ = io.WriteString(w, body)
}

func (h *JournalHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
		return
	}

	repo, unlock := h.repo(r)
	defer unlock()

	res, err := repo.ImportJSON(r.Context(), string(raw))
	switch {
	case errors.Is(err, journal.ErrImportParse), errors.Is(err, journal.ErrInvalidFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		storageFailed(w)
		return
	}
	h.Logger.Info("journal imported", "owner", ownerID(r), "sessions", res.Sessions, "free_cards", res.FreeCards)
	writeJSON(w, http.StatusOK, res)
}
