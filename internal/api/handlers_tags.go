package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/bindlehq/bindle/internal/api/respond"
	"github.com/bindlehq/bindle/internal/services"
)

type TagHandler struct {
	svc *services.TagService
}

func NewTagHandler(svc *services.TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

// Complete GET /api/v1/{username}/tags/complete?tag=py&current=bookmarks
func (h *TagHandler) Complete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	q := r.URL.Query()

	tags, err := h.svc.Complete(r.Context(), vars["username"], q.Get("tag"), splitCurrent(q.Get("current")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"current": q.Get("current"),
		"tags":    tags,
	})
}

// splitCurrent accepts the already-chosen tags as a comma- or
// whitespace-separated list.
func splitCurrent(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
