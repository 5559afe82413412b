package api

import (
	"net/http"

	"github.com/bindlehq/bindle/internal/api/respond"
	"github.com/bindlehq/bindle/internal/storage"
)

type HealthHandler struct {
	store storage.Store
}

func NewHealthHandler(store storage.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check GET /api/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CheckStorage GET /api/health/db
func (h *HealthHandler) CheckStorage(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(r.Context()); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
