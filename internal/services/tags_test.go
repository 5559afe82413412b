package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bindlehq/bindle/internal/model"
)

func seedTagged(t *testing.T, svc *BookmarkService, username, url, tags string) {
	t.Helper()
	_, err := svc.Upsert(context.Background(), model.UpsertRequest{
		Username: username,
		URL:      url,
		Tags:     tags,
	})
	require.NoError(t, err)
}

func TestComplete_PrefixOnly(t *testing.T) {
	ctx := context.Background()
	bsvc, store, _ := newTestEnv(t)
	tsvc := NewTagService(store)

	seedTagged(t, bsvc, "admin", "http://one.example", "python pyramid web")
	seedTagged(t, bsvc, "admin", "http://two.example", "python search")

	tags, err := tsvc.Complete(ctx, "admin", "py", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"pyramid", "python"}, tags)

	tags, err = tsvc.Complete(ctx, "admin", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"pyramid", "python", "search", "web"}, tags)
}

func TestComplete_CoOccurrenceConstraint(t *testing.T) {
	ctx := context.Background()
	bsvc, store, _ := newTestEnv(t)
	tsvc := NewTagService(store)

	// "bookmarks" co-occurs with python only here; "pyramid" never does.
	seedTagged(t, bsvc, "admin", "http://one.example", "bookmarks python search")
	seedTagged(t, bsvc, "admin", "http://two.example", "pyramid web")

	tags, err := tsvc.Complete(ctx, "admin", "py", []string{"bookmarks"})
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, tags)

	// All current tags must co-occur on one bookmark.
	tags, err = tsvc.Complete(ctx, "admin", "", []string{"bookmarks", "web"})
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestComplete_NoCoOccurrenceExcludesPrefixMatch(t *testing.T) {
	ctx := context.Background()
	bsvc, store, _ := newTestEnv(t)
	tsvc := NewTagService(store)

	seedTagged(t, bsvc, "admin", "http://one.example", "python search")
	seedTagged(t, bsvc, "admin", "http://two.example", "bookmarks")

	// "python" matches the prefix but shares no bookmark with "bookmarks".
	tags, err := tsvc.Complete(ctx, "admin", "py", []string{"bookmarks"})
	require.NoError(t, err)
	assert.Empty(t, tags)

	tags, err = tsvc.Complete(ctx, "admin", "py", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, tags)
}

func TestComplete_ExcludesChosenAndNormalizes(t *testing.T) {
	ctx := context.Background()
	bsvc, store, _ := newTestEnv(t)
	tsvc := NewTagService(store)

	seedTagged(t, bsvc, "admin", "http://one.example", "python search web")

	tags, err := tsvc.Complete(ctx, "admin", "", []string{" Python ", "PYTHON"})
	require.NoError(t, err)
	assert.Equal(t, []string{"search", "web"}, tags)
}

func TestComplete_OwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	bsvc, store, _ := newTestEnv(t)
	tsvc := NewTagService(store)

	seedTagged(t, bsvc, "alice", "http://one.example", "python")
	seedTagged(t, bsvc, "bob", "http://two.example", "pyramid")

	tags, err := tsvc.Complete(ctx, "alice", "py", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, tags)
}
