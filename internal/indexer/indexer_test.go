package indexer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bindlehq/bindle/internal/model"
	"github.com/bindlehq/bindle/internal/searchindex"
	"github.com/bindlehq/bindle/internal/storage"
	"github.com/bindlehq/bindle/internal/storage/sqlite"
)

func newTestIndexer(t *testing.T) (*Indexer, storage.Store) {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ix := New(store, searchindex.NewMemoryIndex(), zerolog.Nop(), 16)
	return ix, store
}

func seed(t *testing.T, store storage.Store, username, hashID, url, description, extended string, content *model.ReadableContent) {
	t.Helper()
	_, err := store.UpsertBookmark(context.Background(), storage.UpsertBookmarkRequest{
		Username:    username,
		HashID:      hashID,
		URL:         url,
		Description: description,
		Extended:    extended,
		InsertedBy:  "test",
		Content:     content,
	})
	require.NoError(t, err)
}

func TestReindexAll_ThenSearch(t *testing.T) {
	ctx := context.Background()
	ix, store := newTestIndexer(t)

	seed(t, store, "admin", "hash0000000001", "http://one.example",
		"The Big Lebowski", "", &model.ReadableContent{Title: "Lebowski fan page", Content: "<p>The dude abides</p>"})
	seed(t, store, "admin", "hash0000000002", "http://two.example",
		"Unrelated page", "", nil)

	require.NoError(t, ix.ReindexAll(ctx, "admin"))

	hits, err := ix.Search(ctx, "admin", "dude")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "hash0000000001", hits[0].Bookmark.HashID)

	// Resolution does not count as a click.
	assert.Equal(t, int64(0), hits[0].Bookmark.Clicks)
}

func TestReindexAll_EmptyOwnerClearsCorpus(t *testing.T) {
	ctx := context.Background()
	ix, store := newTestIndexer(t)

	seed(t, store, "admin", "hash0000000001", "http://one.example", "findable entry", "", nil)
	require.NoError(t, ix.ReindexAll(ctx, "admin"))

	require.NoError(t, store.DeleteBookmark(ctx, "admin", "hash0000000001"))
	require.NoError(t, ix.ReindexAll(ctx, "admin"))

	hits, err := ix.Search(ctx, "admin", "findable")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestReindexAll_AllOwners(t *testing.T) {
	ctx := context.Background()
	ix, store := newTestIndexer(t)

	seed(t, store, "alice", "hash0000000001", "http://one.example", "golang notes", "", nil)
	seed(t, store, "bob", "hash0000000002", "http://two.example", "golang links", "", nil)

	require.NoError(t, ix.ReindexAll(ctx, ""))

	hits, err := ix.Search(ctx, "alice", "golang")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "hash0000000001", hits[0].Bookmark.HashID)
}

func TestReindexOne_UpsertAndVanished(t *testing.T) {
	ctx := context.Background()
	ix, store := newTestIndexer(t)

	seed(t, store, "admin", "hash0000000001", "http://one.example", "fresh entry", "", nil)
	require.NoError(t, ix.ReindexOne(ctx, "admin", "hash0000000001"))

	hits, err := ix.Search(ctx, "admin", "fresh")
	require.NoError(t, err)
	require.Len(t, hits, 1)

	// Deleted from the store: ReindexOne drops the stale entry instead of
	// erroring.
	require.NoError(t, store.DeleteBookmark(ctx, "admin", "hash0000000001"))
	require.NoError(t, ix.ReindexOne(ctx, "admin", "hash0000000001"))

	hits, err = ix.Search(ctx, "admin", "fresh")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDrop(t *testing.T) {
	ctx := context.Background()
	ix, store := newTestIndexer(t)

	seed(t, store, "admin", "hash0000000001", "http://one.example", "droppable", "", nil)
	require.NoError(t, ix.ReindexOne(ctx, "admin", "hash0000000001"))

	ix.Drop("admin", "hash0000000001")

	hits, err := ix.Search(ctx, "admin", "droppable")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_SkipsVanishedBookmarks(t *testing.T) {
	ctx := context.Background()
	ix, store := newTestIndexer(t)

	seed(t, store, "admin", "hash0000000001", "http://one.example", "stale entry", "", nil)
	require.NoError(t, ix.ReindexAll(ctx, "admin"))

	// Delete from the store only; the index still holds the entry.
	require.NoError(t, store.DeleteBookmark(ctx, "admin", "hash0000000001"))

	hits, err := ix.Search(ctx, "admin", "stale")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestReindexAll_ConcurrentCallsCoalesce(t *testing.T) {
	ctx := context.Background()
	ix, store := newTestIndexer(t)

	seed(t, store, "admin", "hash0000000001", "http://one.example", "concurrent entry", "", nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, ix.ReindexAll(ctx, "admin"))
		}()
	}
	wg.Wait()

	hits, err := ix.Search(ctx, "admin", "concurrent")
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestRunAndEnqueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ix, store := newTestIndexer(t)

	seed(t, store, "admin", "hash0000000001", "http://one.example", "queued entry", "", nil)
	go ix.Run(ctx)

	ix.Enqueue(Request{Op: OpReindexOwner, Owner: "admin"})

	// The worker is asynchronous; poll until the rebuild lands.
	deadline := time.Now().Add(5 * time.Second)
	for {
		hits, err := ix.Search(ctx, "admin", "queued")
		require.NoError(t, err)
		if len(hits) == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("queued reindex request never applied")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
