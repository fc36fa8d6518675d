package handler

import (
	"log/slog"
	"net/http"

	"mak/internal/catalog"
)

type CatalogHandler struct {
	Catalog *catalog.Holder
	Logger  *slog.Logger
}

func (h *CatalogHandler) Decks(w http.ResponseWriter, r *http.Request) {
	c, ok := currentCatalog(w, h.Catalog)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"decks": c.Decks})
}

func (h *CatalogHandler) Spreads(w http.ResponseWriter, r *http.Request) {
	spreads, err := catalog.Spreads()
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"spreads": spreads})
}

func (h *CatalogHandler) Practices(w http.ResponseWriter, r *http.Request) {
	practices, err := catalog.Practices()
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"practices": practices})
}

// Reload is the only way out of the failed-catalog state.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Reload(r.Context()); err != nil {
		h.Logger.Warn("catalog reload failed", "err", err)
		http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
		return
	}
	c, _ := h.Catalog.Current()
	writeJSON(w, http.StatusOK, map[string]any{"decks": len(c.Decks), "loadedAt": c.LoadedAt})
}
