package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bindlehq/bindle/internal/api/respond"
	"github.com/bindlehq/bindle/internal/model"
	"github.com/bindlehq/bindle/internal/services"
)

type BookmarkHandler struct {
	svc *services.BookmarkService
}

func NewBookmarkHandler(svc *services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{svc: svc}
}

// Upsert POST /api/v1/{username}/bmark
func (h *BookmarkHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req struct {
		URL         string                 `json:"url"`
		Description string                 `json:"description"`
		Extended    string                 `json:"extended"`
		Tags        string                 `json:"tags"`
		InsertedBy  string                 `json:"inserted_by"`
		Content     *model.ReadableContent `json:"content,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "No url provided")
		return
	}
	if req.URL == "" {
		respond.WriteBadRequest(w, "No url provided")
		return
	}

	b, err := h.svc.Upsert(r.Context(), model.UpsertRequest{
		Username:    vars["username"],
		URL:         req.URL,
		Description: req.Description,
		Extended:    req.Extended,
		Tags:        req.Tags,
		InsertedBy:  req.InsertedBy,
		Content:     req.Content,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bmark":    viewBookmark(b),
		"location": fmt.Sprintf("/api/v1/%s/bmark/%s", b.Username, b.HashID),
	})
}

// Get GET /api/v1/{username}/bmark/{hash}
func (h *BookmarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	withContent := r.URL.Query().Get("with_content") == "true"

	b, err := h.svc.Get(r.Context(), vars["username"], vars["hash"], withContent)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !withContent {
		b.Readable = nil
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"bmark": viewBookmark(b)})
}

// Delete DELETE /api/v1/{username}/bmark/{hash}
func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.Delete(r.Context(), vars["username"], vars["hash"]); err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "done"})
}

// Recent GET /api/v1/{username}/bmarks
func (h *BookmarkHandler) Recent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	withContent := q.Get("with_content") == "true"

	bmarks, err := h.svc.ListRecent(r.Context(), vars["username"], limit, offset, withContent)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bmarks": viewBookmarks(bmarks),
		"count":  len(bmarks),
	})
}

// Search GET /api/v1/{username}/bmarks/search/{terms}
// With ?substring=true the query runs as a case-insensitive substring
// filter over description/URL instead of hitting the full-text index.
func (h *BookmarkHandler) Search(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if r.URL.Query().Get("substring") == "true" {
		bmarks, err := h.svc.SearchSubstring(r.Context(), vars["username"], vars["terms"])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"search_results": viewBookmarks(bmarks),
			"result_count":   len(bmarks),
		})
		return
	}

	hits, err := h.svc.Search(r.Context(), vars["username"], vars["terms"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"search_results": viewSearchHits(hits),
		"result_count":   len(hits),
	})
}
