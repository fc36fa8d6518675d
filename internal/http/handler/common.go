package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"mak/internal/catalog"
	"mak/internal/owner"
	"mak/internal/storage"
)

const maxBody = 5 << 20

var errStorage = errors.New("storage unavailable")

var uuidString = uuid.NewString

// Scope opens the owner's storage for one request.
type Scope struct {
	Store  storage.Store
	Locks  *storage.Locks
	Logger *slog.Logger
	Now    func() time.Time
}

func (s *Scope) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// open returns the owner adapter with the owner lock held. Call the
// returned func to release it.
func (s *Scope) open(r *http.Request) (*storage.Adapter, string, func()) {
	id, _ := owner.FromContext(r.Context())
	unlock := s.Locks.Lock(id)
	return storage.NewAdapter(s.Store, id, s.Logger), id, unlock
}

func ownerID(r *http.Request) string {
	id, _ := owner.FromContext(r.Context())
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func storageFailed(w http.ResponseWriter) {
	http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
}

// currentCatalog writes 503 while the catalog is not loaded.
func currentCatalog(w http.ResponseWriter, h *catalog.Holder) (*catalog.Catalog, bool) {
	c, err := h.Current()
	if err != nil {
		http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	return c, true
}
