package handler

import (
	"net/http"

	"mak/internal/owner"
)

type OwnerHandler struct {
	JWT *owner.JWT
}

// Create issues a new anonymous owner namespace.
func (h *OwnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, token, err := h.JWT.New()
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"ownerId": id,
		"token":   token,
	})
}
