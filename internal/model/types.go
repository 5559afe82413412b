package model

import (
	"strings"
	"time"
)

// Bookmark is a stored URL with its metadata. Identity is HashID, a
// deterministic digest of the normalized URL, unique per owner.
type Bookmark struct {
	HashID      string    `json:"hash_id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Extended    string    `json:"extended"`
	Username    string    `json:"username"`
	InsertedBy  string    `json:"inserted_by"`
	Clicks      int64     `json:"clicks"`
	Stored      time.Time `json:"stored"`
	Updated     time.Time `json:"updated"`

	Tags []Tag `json:"tags"`

	// Readable is the extracted page content, attached out of band and
	// consumed by the indexer. Omitted from responses unless requested.
	Readable *ReadableContent `json:"readable,omitempty"`
}

// Tag is an owner-scoped, case-normalized label. It has no metadata of its
// own; the bookmark association is the only thing that keeps it alive.
type Tag struct {
	Name string `json:"name"`
}

// TagStr renders the space-joined tag list the extension clients expect.
func (b *Bookmark) TagStr() string {
	names := make([]string, len(b.Tags))
	for i, t := range b.Tags {
		names[i] = t.Name
	}
	return strings.Join(names, " ")
}

// ReadableContent is the fetched-and-extracted page text for a bookmark.
type ReadableContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpsertRequest carries one bookmark submission. URL is the only required
// field; Tags is the raw whitespace-separated tag string from the client.
type UpsertRequest struct {
	Username    string
	URL         string
	Description string
	Extended    string
	Tags        string
	InsertedBy  string
	Content     *ReadableContent
}

// SearchHit pairs a bookmark with its full-text relevance score.
type SearchHit struct {
	Bookmark *Bookmark `json:"bmark"`
	Score    float64   `json:"score"`
}

// SyncDiff is the reconciliation result for a client hash set: fetch ToAdd,
// delete ToRemove, and the client converges on the server set.
type SyncDiff struct {
	ToAdd    []string `json:"to_add"`
	ToRemove []string `json:"to_remove"`
}
