package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bindlehq/bindle/internal/indexer"
	"github.com/bindlehq/bindle/internal/model"
	"github.com/bindlehq/bindle/internal/storage"
	"github.com/bindlehq/bindle/internal/urlhash"
)

// BookmarkService orchestrates the bookmark store: hashing, tag parsing,
// persistence, and handing index work to the indexer.
type BookmarkService struct {
	store storage.Store
	idx   *indexer.Indexer
}

func NewBookmarkService(store storage.Store, idx *indexer.Indexer) *BookmarkService {
	return &BookmarkService{store: store, idx: idx}
}

// Upsert creates or updates the bookmark keyed by (owner, hash of URL).
// Re-submitting a URL updates the existing record in place; the click
// counter and original stored time survive. Indexing is enqueued after the
// write commits and never blocks or fails the caller.
func (s *BookmarkService) Upsert(ctx context.Context, req model.UpsertRequest) (*model.Bookmark, error) {
	if req.Username == "" {
		return nil, fmt.Errorf("%w: username is required", model.ErrValidation)
	}
	hashID, err := urlhash.Hash(req.URL)
	if err != nil {
		return nil, err
	}

	b, err := s.store.UpsertBookmark(ctx, storage.UpsertBookmarkRequest{
		Username:    req.Username,
		HashID:      hashID,
		URL:         req.URL,
		Description: req.Description,
		Extended:    req.Extended,
		InsertedBy:  req.InsertedBy,
		Tags:        ParseTags(req.Tags),
		Content:     req.Content,
	})
	if err != nil {
		return nil, err
	}

	s.idx.Enqueue(indexer.Request{Op: indexer.OpReindexOne, Owner: req.Username, HashID: hashID})
	return b, nil
}

// Get fetches one bookmark and counts the fetch as a click. The increment
// is atomic in the store, so concurrent readers never lose updates.
func (s *BookmarkService) Get(ctx context.Context, owner, hashID string, withContent bool) (*model.Bookmark, error) {
	return s.store.TouchBookmark(ctx, owner, hashID, withContent)
}

// Delete removes the bookmark and signals the indexer to drop its entry.
func (s *BookmarkService) Delete(ctx context.Context, owner, hashID string) error {
	if err := s.store.DeleteBookmark(ctx, owner, hashID); err != nil {
		return err
	}
	s.idx.Enqueue(indexer.Request{Op: indexer.OpDrop, Owner: owner, HashID: hashID})
	return nil
}

// ListRecent pages through the owner's bookmarks, most recently updated
// first.
func (s *BookmarkService) ListRecent(ctx context.Context, owner string, limit, offset int, withContent bool) ([]*model.Bookmark, error) {
	return s.store.ListRecent(ctx, owner, limit, offset, withContent)
}

// SearchSubstring is the lightweight fallback filter over description and
// URL; full-text search goes through Search.
func (s *BookmarkService) SearchSubstring(ctx context.Context, owner, query string) ([]*model.Bookmark, error) {
	return s.store.SearchSubstring(ctx, owner, query)
}

// Search runs a full-text query against the index.
func (s *BookmarkService) Search(ctx context.Context, owner, query string) ([]model.SearchHit, error) {
	return s.idx.Search(ctx, owner, query)
}

// ParseTags splits a whitespace-separated tag string into a normalized,
// deduplicated list: trimmed, lowercased, first occurrence wins.
func ParseTags(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range strings.Fields(raw) {
		t := strings.ToLower(f)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
