package api

import (
	"errors"
	"net/http"

	"github.com/bindlehq/bindle/internal/api/respond"
	"github.com/bindlehq/bindle/internal/model"
)

// bmarkJSON is the wire representation of a bookmark: the model fields plus
// the space-joined tag_str the extension clients expect.
type bmarkJSON struct {
	*model.Bookmark
	TagStr string `json:"tag_str"`
}

// searchResultJSON augments a bookmark with its full-text relevance score.
type searchResultJSON struct {
	bmarkJSON
	Score float64 `json:"score"`
}

func viewBookmark(b *model.Bookmark) bmarkJSON {
	bb := *b
	if bb.Tags == nil {
		bb.Tags = []model.Tag{}
	}
	return bmarkJSON{Bookmark: &bb, TagStr: bb.TagStr()}
}

func viewBookmarks(bmarks []*model.Bookmark) []bmarkJSON {
	out := make([]bmarkJSON, 0, len(bmarks))
	for _, b := range bmarks {
		out = append(out, viewBookmark(b))
	}
	return out
}

func viewSearchHits(hits []model.SearchHit) []searchResultJSON {
	out := make([]searchResultJSON, 0, len(hits))
	for _, h := range hits {
		out = append(out, searchResultJSON{bmarkJSON: viewBookmark(h.Bookmark), Score: h.Score})
	}
	return out
}

// writeServiceError maps core error kinds onto transport status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, model.Message(err))
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, model.Message(err))
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
