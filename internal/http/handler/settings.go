package handler

import (
	"errors"
	"net/http"

	"mak/internal/settings"
)

type SettingsHandler struct {
	*Scope
}

func (h *SettingsHandler) GetLast(w http.ResponseWriter, r *http.Request) {
	a, _, unlock := h.open(r)
	defer unlock()

	last := settings.Load(r.Context(), a)
	writeJSON(w, http.StatusOK, map[string]any{"last": last, "mode": last.EffectiveMode()})
}

func (h *SettingsHandler) PatchLast(w http.ResponseWriter, r *http.Request) {
	var p settings.Patch
	if !decode(w, r, &p) {
		return
	}
	a, _, unlock := h.open(r)
	defer unlock()

	last, err := settings.Update(r.Context(), a, p)
	switch {
	case errors.Is(err, settings.ErrInvalidMode):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		storageFailed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"last": last, "mode": last.EffectiveMode()})
}
