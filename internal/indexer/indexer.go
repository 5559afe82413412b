// Package indexer maintains the full-text search index from bookmark
// content. It runs as a background worker fed by a request queue, and every
// rebuild entry point can also be called synchronously so tests can assert
// index state right after a write.
package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/bindlehq/bindle/internal/model"
	"github.com/bindlehq/bindle/internal/searchindex"
	"github.com/bindlehq/bindle/internal/storage"
)

// Op identifies one queued indexing action.
type Op string

const (
	OpReindexOwner Op = "reindex_owner"
	OpReindexOne   Op = "reindex_one"
	OpDrop         Op = "drop"
)

// Request is one unit of asynchronous indexing work.
type Request struct {
	Op     Op
	Owner  string
	HashID string
}

// Indexer rebuilds and queries the search index. The store remains the
// source of truth; a lost or failed indexing request is repairable by a
// later ReindexAll.
type Indexer struct {
	store storage.Store
	index searchindex.Index
	log   zerolog.Logger
	queue chan Request

	// rebuilds coalesces concurrent ReindexAll calls per owner: one rebuild
	// runs, later callers wait for and share its result.
	rebuilds singleflight.Group
}

// New constructs an Indexer with a buffered request queue.
func New(store storage.Store, index searchindex.Index, log zerolog.Logger, queueSize int) *Indexer {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Indexer{
		store: store,
		index: index,
		log:   log,
		queue: make(chan Request, queueSize),
	}
}

// Run consumes queued requests until ctx is canceled. Failures are logged
// and never propagated; the originating write has already committed.
func (ix *Indexer) Run(ctx context.Context) {
	ix.log.Info().Int("queue_cap", cap(ix.queue)).Msg("indexer worker starting")
	for {
		select {
		case <-ctx.Done():
			ix.log.Info().Msg("indexer worker stopping")
			return
		case req := <-ix.queue:
			if err := ix.handle(ctx, req); err != nil {
				ix.log.Error().Err(err).
					Str("op", string(req.Op)).
					Str("owner", req.Owner).
					Str("hash", req.HashID).
					Msg("indexing request failed")
			}
		}
	}
}

// Enqueue hands a request to the worker without blocking the caller. When
// the queue is full the request is dropped with a warning; the index can be
// repaired by a full reindex.
func (ix *Indexer) Enqueue(req Request) {
	select {
	case ix.queue <- req:
	default:
		ix.log.Warn().
			Str("op", string(req.Op)).
			Str("owner", req.Owner).
			Msg("index queue full, dropping request")
	}
}

func (ix *Indexer) handle(ctx context.Context, req Request) error {
	switch req.Op {
	case OpReindexOwner:
		return ix.ReindexAll(ctx, req.Owner)
	case OpReindexOne:
		return ix.ReindexOne(ctx, req.Owner, req.HashID)
	case OpDrop:
		ix.Drop(req.Owner, req.HashID)
		return nil
	default:
		return fmt.Errorf("unknown indexing op %q", req.Op)
	}
}

// ReindexAll rebuilds the owner's entire corpus from the store and swaps it
// into the index. An empty owner rebuilds every owner's corpus. At most one
// rebuild per owner is in flight; concurrent callers share its outcome.
func (ix *Indexer) ReindexAll(ctx context.Context, owner string) error {
	_, err, _ := ix.rebuilds.Do(owner, func() (interface{}, error) {
		bmarks, err := ix.store.ListAll(ctx, owner)
		if err != nil {
			return nil, err
		}

		byOwner := make(map[string][]searchindex.Document)
		for _, b := range bmarks {
			byOwner[b.Username] = append(byOwner[b.Username], docFor(b))
		}
		if owner != "" {
			// Replace even when the owner has no bookmarks left.
			ix.index.ReplaceOwner(owner, byOwner[owner])
			return nil, nil
		}
		for o, docs := range byOwner {
			ix.index.ReplaceOwner(o, docs)
		}
		return nil, nil
	})
	return err
}

// ReindexOne refreshes a single bookmark's entry. A bookmark that no longer
// exists is removed from the index instead.
func (ix *Indexer) ReindexOne(ctx context.Context, owner, hashID string) error {
	b, err := ix.store.GetBookmark(ctx, owner, hashID, true)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			ix.index.Remove(owner, hashID)
			return nil
		}
		return err
	}
	ix.index.Upsert(owner, docFor(b))
	return nil
}

// Drop removes a bookmark's entry from the index.
func (ix *Indexer) Drop(owner, hashID string) {
	ix.index.Remove(owner, hashID)
}

// Search resolves index hits back to bookmarks. Hits whose bookmark has
// vanished since the last rebuild are skipped; resolution never touches
// click counters.
func (ix *Indexer) Search(ctx context.Context, owner, query string) ([]model.SearchHit, error) {
	hits := ix.index.Search(owner, query)
	out := make([]model.SearchHit, 0, len(hits))
	for _, h := range hits {
		b, err := ix.store.GetBookmark(ctx, owner, h.HashID, false)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, model.SearchHit{Bookmark: b, Score: h.Score})
	}
	return out, nil
}

func docFor(b *model.Bookmark) searchindex.Document {
	d := searchindex.Document{
		HashID: b.HashID,
		Title:  b.Description,
		Body:   b.Extended,
	}
	if b.Readable != nil {
		d.Title += " " + b.Readable.Title
		d.Body += " " + b.Readable.Content
	}
	return d
}
