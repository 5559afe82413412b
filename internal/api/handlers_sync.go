package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bindlehq/bindle/internal/api/respond"
	"github.com/bindlehq/bindle/internal/services"
)

type SyncHandler struct {
	svc *services.SyncService
}

func NewSyncHandler(svc *services.SyncService) *SyncHandler {
	return &SyncHandler{svc: svc}
}

// Snapshot GET /api/v1/{username}/extension/sync
// Optional ?since=RFC3339 restricts the set to recently updated bookmarks.
func (h *SyncHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respond.WriteBadRequest(w, "since must be RFC3339")
			return
		}
		since = &t
	}

	hashes, err := h.svc.Snapshot(r.Context(), vars["username"], since)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if hashes == nil {
		hashes = []string{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"hash_list": hashes})
}

// Diff POST /api/v1/{username}/extension/sync/diff
// The client posts its local hash set and receives exactly what to fetch
// and what to discard to converge on the server state.
func (h *SyncHandler) Diff(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req struct {
		HashList []string `json:"hash_list"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	server, err := h.svc.Snapshot(r.Context(), vars["username"], nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, services.Diff(server, req.HashList))
}
