// Package searchindex holds the full-text search index for bookmark content.
// The index is a derived, rebuildable artifact: the store stays the source
// of truth and the indexer rebuilds an owner's corpus wholesale.
package searchindex

// Document is one bookmark's searchable text, split by field weight.
// Title carries the description and extracted page title; Body carries the
// extended notes and extracted page text.
type Document struct {
	HashID string
	Title  string
	Body   string
}

// Hit is a match from the index with its relevance score.
type Hit struct {
	HashID string
	Score  float64
}

// Index is the contract between the indexer and its backing structure.
type Index interface {
	// ReplaceOwner atomically swaps the owner's entire corpus for docs.
	// Concurrent searches see either the old corpus or the new one, never
	// a partial rebuild.
	ReplaceOwner(owner string, docs []Document)

	// Upsert replaces a single document in the owner's corpus.
	Upsert(owner string, doc Document)

	// Remove drops one document from the owner's corpus.
	Remove(owner, hashID string)

	// Search returns every document containing all query terms, scored by
	// field weight and ordered deterministically (score desc, hash asc).
	Search(owner, query string) []Hit
}
