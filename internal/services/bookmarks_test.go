package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bindlehq/bindle/internal/indexer"
	"github.com/bindlehq/bindle/internal/model"
	"github.com/bindlehq/bindle/internal/searchindex"
	"github.com/bindlehq/bindle/internal/storage"
	"github.com/bindlehq/bindle/internal/storage/sqlite"
)

func newTestEnv(t *testing.T) (*BookmarkService, storage.Store, *indexer.Indexer) {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ix := indexer.New(store, searchindex.NewMemoryIndex(), zerolog.Nop(), 16)
	return NewBookmarkService(store, ix), store, ix
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"python", "search"}, ParseTags("python search"))
	assert.Equal(t, []string{"python", "search"}, ParseTags("  Python   SEARCH  "))
	assert.Equal(t, []string{"python"}, ParseTags("python Python PYTHON"))
	assert.Nil(t, ParseTags(""))
	assert.Nil(t, ParseTags("   "))
}

func TestUpsert_HashesURLAndParsesTags(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEnv(t)

	b, err := svc.Upsert(ctx, model.UpsertRequest{
		Username:    "admin",
		URL:         "http://google.com",
		Description: "Google",
		Tags:        "Search ENGINE search",
		InsertedBy:  "chrome_ext",
	})
	require.NoError(t, err)
	assert.Equal(t, "aa2239c17609b2", b.HashID)
	assert.Equal(t, "engine search", b.TagStr())
	assert.Equal(t, "chrome_ext", b.InsertedBy)
}

func TestUpsert_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEnv(t)

	_, err := svc.Upsert(ctx, model.UpsertRequest{Username: "admin", URL: ""})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
	assert.Equal(t, "No url provided", model.Message(err))

	_, err = svc.Upsert(ctx, model.UpsertRequest{Username: "", URL: "http://google.com"})
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestUpsert_SameURLIsOneBookmark(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestEnv(t)

	_, err := svc.Upsert(ctx, model.UpsertRequest{Username: "admin", URL: "http://google.com", Description: "first"})
	require.NoError(t, err)
	b, err := svc.Upsert(ctx, model.UpsertRequest{Username: "admin", URL: "HTTP://google.com:80", Description: "second"})
	require.NoError(t, err)
	assert.Equal(t, "second", b.Description)

	all, err := store.ListAll(ctx, "admin")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGet_CountsClicks(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEnv(t)

	b, err := svc.Upsert(ctx, model.UpsertRequest{Username: "admin", URL: "http://bmark.us"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "admin", b.HashID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Clicks)

	got, err = svc.Get(ctx, "admin", b.HashID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Clicks)
}

func TestDelete_RemovesFromStoreAndIndex(t *testing.T) {
	ctx := context.Background()
	svc, _, ix := newTestEnv(t)

	b, err := svc.Upsert(ctx, model.UpsertRequest{Username: "admin", URL: "http://bmark.us", Description: "bookmark hub"})
	require.NoError(t, err)
	require.NoError(t, ix.ReindexAll(ctx, "admin"))

	require.NoError(t, svc.Delete(ctx, "admin", b.HashID))

	_, err = svc.Get(ctx, "admin", b.HashID, false)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	err = svc.Delete(ctx, "admin", b.HashID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestSearchSubstring_FallbackFilter(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEnv(t)

	_, err := svc.Upsert(ctx, model.UpsertRequest{
		Username:    "admin",
		URL:         "http://docs.python.org",
		Description: "Python documentation",
	})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, model.UpsertRequest{Username: "admin", URL: "http://golang.org"})
	require.NoError(t, err)

	// Works without any index rebuild; matches description or URL.
	hits, err := svc.SearchSubstring(ctx, "admin", "python")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Python documentation", hits[0].Description)
}

func TestSearch_ThroughIndexer(t *testing.T) {
	ctx := context.Background()
	svc, _, ix := newTestEnv(t)

	_, err := svc.Upsert(ctx, model.UpsertRequest{
		Username:    "admin",
		URL:         "http://dudeism.com",
		Description: "The Dude abides",
	})
	require.NoError(t, err)
	require.NoError(t, ix.ReindexAll(ctx, "admin"))

	hits, err := svc.Search(ctx, "admin", "dude")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "The Dude abides", hits[0].Bookmark.Description)
}
