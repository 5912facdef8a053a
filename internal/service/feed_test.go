package service

import (
	"context"
	"testing"

	"bulag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedPosts(n int) []*models.Post {
	posts := make([]*models.Post, n)
	for i := range posts {
		posts[i] = &models.Post{ID: uint(i + 1)}
	}
	return posts
}

func TestInterleavePromotions(t *testing.T) {
	t.Parallel()

	promos := []models.Promotion{
		{ID: 100, Title: "first"},
		{ID: 200, Title: "second"},
	}

	t.Run("promotion after every fourth post", func(t *testing.T) {
		items := InterleavePromotions(feedPosts(10), promos)
		require.Len(t, items, 12)

		assert.Equal(t, "promotion", items[4].Type)
		assert.Equal(t, uint(100), items[4].Promotion.ID)
		assert.Equal(t, "promotion", items[9].Type)
		assert.Equal(t, uint(200), items[9].Promotion.ID)

		// Posts keep their order around the inserts.
		assert.Equal(t, uint(4), items[3].Post.ID)
		assert.Equal(t, uint(5), items[5].Post.ID)
		assert.Equal(t, "post", items[11].Type)
	})

	t.Run("promotions cycle when posts outnumber them", func(t *testing.T) {
		items := InterleavePromotions(feedPosts(12), promos[:1])
		require.Len(t, items, 15)
		assert.Equal(t, uint(100), items[4].Promotion.ID)
		assert.Equal(t, uint(100), items[9].Promotion.ID)
		assert.Equal(t, uint(100), items[14].Promotion.ID)
	})

	t.Run("no promotions passes through", func(t *testing.T) {
		items := InterleavePromotions(feedPosts(8), nil)
		require.Len(t, items, 8)
		for _, item := range items {
			assert.Equal(t, "post", item.Type)
		}
	})

	t.Run("short page gets no promotion", func(t *testing.T) {
		items := InterleavePromotions(feedPosts(3), promos)
		assert.Len(t, items, 3)
	})

	t.Run("empty page", func(t *testing.T) {
		assert.Empty(t, InterleavePromotions(nil, promos))
	})
}

func TestGetCommunityFeed(t *testing.T) {
	t.Parallel()

	community := &models.Community{ID: 7, Slug: "acme", Status: models.CommunityStatusActive}
	communityRepo := noopCommunityRepo()
	communityRepo.getBySlugFn = func(_ context.Context, slug string) (*models.Community, error) {
		if slug != "acme" {
			return nil, models.NewNotFoundError("Community", slug)
		}
		return community, nil
	}

	postRepo := noopPostRepo()
	postRepo.listByCommunityFn = func(_ context.Context, communityID uint, page, limit int, _ uint, _ string, _ bool) ([]*models.Post, int64, error) {
		assert.Equal(t, uint(7), communityID)
		assert.Equal(t, 1, page)
		assert.Equal(t, 10, limit)
		return feedPosts(5), 23, nil
	}

	promoRepo := noopPromotionRepo()
	promoRepo.listActiveFn = func(_ context.Context, placement models.PromotionPlacement) ([]models.Promotion, error) {
		assert.Equal(t, models.PlacementFeed, placement)
		return []models.Promotion{{ID: 100}}, nil
	}

	svc := NewFeedService(postRepo, promoRepo, communityRepo)

	feed, err := svc.GetCommunityFeed(context.Background(), CommunityFeedInput{
		CommunitySlug: "acme",
		Page:          1,
		Limit:         10,
		Sort:          "newest",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(7), feed.Community.ID)
	require.Len(t, feed.Items, 6)
	assert.Equal(t, "promotion", feed.Items[4].Type)

	// Meta counts posts only, never the interleaved promotions.
	assert.Equal(t, int64(23), feed.Meta.Total)
	assert.Equal(t, 3, feed.Meta.TotalPages)
}

func TestGetCommunityFeed_PromoFailureDegrades(t *testing.T) {
	t.Parallel()

	communityRepo := noopCommunityRepo()
	communityRepo.getBySlugFn = func(_ context.Context, _ string) (*models.Community, error) {
		return &models.Community{ID: 1, Slug: "acme"}, nil
	}
	postRepo := noopPostRepo()
	postRepo.listByCommunityFn = func(_ context.Context, _ uint, _, _ int, _ uint, _ string, _ bool) ([]*models.Post, int64, error) {
		return feedPosts(5), 5, nil
	}
	promoRepo := noopPromotionRepo()
	promoRepo.listActiveFn = func(_ context.Context, _ models.PromotionPlacement) ([]models.Promotion, error) {
		return nil, models.NewInternalError(assert.AnError)
	}

	svc := NewFeedService(postRepo, promoRepo, communityRepo)
	feed, err := svc.GetCommunityFeed(context.Background(), CommunityFeedInput{CommunitySlug: "acme", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, feed.Items, 5)
}

func TestGetCommunityFeed_UnknownCommunity(t *testing.T) {
	t.Parallel()

	communityRepo := noopCommunityRepo()
	communityRepo.getBySlugFn = func(_ context.Context, slug string) (*models.Community, error) {
		return nil, models.NewNotFoundError("Community", slug)
	}

	svc := NewFeedService(noopPostRepo(), noopPromotionRepo(), communityRepo)
	_, err := svc.GetCommunityFeed(context.Background(), CommunityFeedInput{CommunitySlug: "ghost", Page: 1, Limit: 10})
	assertNotFoundError(t, err)
}
