package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	PostKeyPrefix        = "post:%d"
	PostListKeyPrefix    = "community:%d:posts:%s:%d:%d"
	CommentTreeKeyPrefix = "post:%d:comments:%s"
	CommunityKeyPrefix   = "community:%s"
	PromotionsKey        = "promotions:feed"
	PromotionsBannerKey  = "promotions:banner"
	CommunityListKey     = "communities:all"
)

const (
	UserTTL        = 5 * time.Minute
	PostTTL        = 30 * time.Minute
	PostListTTL    = 1 * time.Minute
	CommentTreeTTL = 1 * time.Minute
	CommunityTTL   = 10 * time.Minute
	PromotionsTTL  = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// PostListKey identifies one page of a community feed for a given sort.
func PostListKey(communityID uint, sort string, page, limit int) string {
	return fmt.Sprintf(PostListKeyPrefix, communityID, sort, page, limit)
}

// CommentTreeKey identifies the assembled comment tree for a post and sort.
func CommentTreeKey(postID uint, sort string) string {
	return fmt.Sprintf(CommentTreeKeyPrefix, postID, sort)
}

func CommunityKey(slug string) string {
	return fmt.Sprintf(CommunityKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops the post entry and every cached comment tree sort for it.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	for _, sort := range []string{"oldest", "newest", "popular"} {
		Invalidate(ctx, CommentTreeKey(postID, sort))
	}
}

// InvalidatePostList drops all cached feed pages for a community by scanning
// the page-key pattern. Feed pages are short-lived, so a SCAN here is rare
// enough to stay off the hot path.
func InvalidatePostList(ctx context.Context, communityID uint) {
	if client == nil {
		return
	}
	pattern := fmt.Sprintf("community:%d:posts:*", communityID)
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateCommunity(ctx context.Context, slug string) {
	Invalidate(ctx, CommunityKey(slug))
	Invalidate(ctx, CommunityListKey)
}

func InvalidatePromotions(ctx context.Context) {
	Invalidate(ctx, PromotionsKey)
	Invalidate(ctx, PromotionsBannerKey)
}
