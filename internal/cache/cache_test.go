package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedPost struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			fetches++
			dest.ID = 7
			dest.Title = "welcome"
			return nil
		}
	}

	var first cachedPost
	err := Aside(ctx, PostKey(7), &first, PostTTL, fetch(&first))
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "welcome", first.Title)

	// Second read is served from cache, fetch not called again
	var second cachedPost
	err = Aside(ctx, PostKey(7), &second, PostTTL, fetch(&second))
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
}

func TestAside_NilClientFallsThrough(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var out cachedPost
	err := Aside(ctx, PostKey(1), &out, PostTTL, func() error {
		fetches++
		out.ID = 1
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, uint(1), out.ID)
}

func TestInvalidatePost_DropsPostAndCommentTrees(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(3), cachedPost{ID: 3}, PostTTL))
	require.NoError(t, SetJSON(ctx, CommentTreeKey(3, "popular"), []int{1, 2}, CommentTreeTTL))
	require.NoError(t, SetJSON(ctx, CommentTreeKey(3, "newest"), []int{2, 1}, CommentTreeTTL))

	InvalidatePost(ctx, 3)

	assert.False(t, mr.Exists(PostKey(3)))
	assert.False(t, mr.Exists(CommentTreeKey(3, "popular")))
	assert.False(t, mr.Exists(CommentTreeKey(3, "newest")))
}

func TestInvalidatePostList_DropsAllPages(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostListKey(5, "newest", 1, 20), []int{1}, PostListTTL))
	require.NoError(t, SetJSON(ctx, PostListKey(5, "popular", 2, 20), []int{2}, PostListTTL))
	require.NoError(t, SetJSON(ctx, PostListKey(6, "newest", 1, 20), []int{3}, PostListTTL))

	InvalidatePostList(ctx, 5)

	assert.False(t, mr.Exists(PostListKey(5, "newest", 1, 20)))
	assert.False(t, mr.Exists(PostListKey(5, "popular", 2, 20)))
	assert.True(t, mr.Exists(PostListKey(6, "newest", 1, 20)))
}
