package storage

import (
	"context"
	"time"

	"github.com/bindlehq/bindle/internal/model"
)

// UpsertBookmarkRequest is the storage-level write for one bookmark. The
// hash is computed by the caller; the store treats it as an opaque key.
type UpsertBookmarkRequest struct {
	Username    string
	HashID      string
	URL         string
	Description string
	Extended    string
	InsertedBy  string

	// Tags is the normalized, deduplicated tag set. Associations not in
	// this list are removed; tags left with no bookmarks are pruned.
	Tags []string

	// Content, when non-nil, replaces the stored readable content. A nil
	// Content leaves any previously attached content in place.
	Content *model.ReadableContent
}

// Store is the persistence collaborator for the bookmark core. Each write
// method executes inside a single transaction; the underlying engine is the
// sole serialization point for concurrent writers.
type Store interface {
	// UpsertBookmark inserts or updates the row keyed by (username, hash).
	// Updates overwrite description/extended/url/tags but preserve the
	// click counter and the original stored timestamp.
	UpsertBookmark(ctx context.Context, req UpsertBookmarkRequest) (*model.Bookmark, error)

	// GetBookmark reads a bookmark without side effects.
	GetBookmark(ctx context.Context, username, hashID string, withContent bool) (*model.Bookmark, error)

	// TouchBookmark reads a bookmark and atomically increments its click
	// counter in the same statement, so concurrent readers never lose an
	// increment. The returned bookmark carries the post-increment count.
	TouchBookmark(ctx context.Context, username, hashID string, withContent bool) (*model.Bookmark, error)

	// DeleteBookmark removes the bookmark, its tag associations, its
	// readable content, and any tags orphaned by the removal.
	DeleteBookmark(ctx context.Context, username, hashID string) error

	// ListRecent returns bookmarks ordered by most recent update first,
	// paginated statelessly by offset/limit.
	ListRecent(ctx context.Context, username string, limit, offset int, withContent bool) ([]*model.Bookmark, error)

	// ListAll returns every bookmark for an owner, content included; an
	// empty username selects all owners. This is the indexer's corpus feed.
	ListAll(ctx context.Context, username string) ([]*model.Bookmark, error)

	// SearchSubstring matches query as a case-insensitive substring of the
	// description or URL.
	SearchSubstring(ctx context.Context, username, query string) ([]*model.Bookmark, error)

	// ListTags returns the owner's tag names with the given case-insensitive
	// prefix; an empty prefix returns all of them.
	ListTags(ctx context.Context, username, prefix string) ([]string, error)

	// ListByTags returns the bookmarks carrying every one of the given tags,
	// with their full tag sets populated.
	ListByTags(ctx context.Context, username string, tags []string) ([]*model.Bookmark, error)

	// Snapshot returns the owner's hash identities, optionally restricted to
	// bookmarks updated at or after since.
	Snapshot(ctx context.Context, username string, since *time.Time) ([]string, error)

	HealthCheck(ctx context.Context) error
	Close() error
}
