package service

import (
	"context"

	"bulag/internal/models"
	"bulag/internal/repository"
)

// promoInterval is how many posts render between promotions: one promotion
// follows every fourth post.
const promoInterval = 4

// FeedItem is one entry in a rendered community feed: either a post or an
// interleaved promotion.
type FeedItem struct {
	Type      string            `json:"type"`
	Post      *models.Post      `json:"post,omitempty"`
	Promotion *models.Promotion `json:"promotion,omitempty"`
}

// InterleavePromotions inserts a promotion after every fourth post, cycling
// through promos in order. Positions are computed per page and never stored;
// with no promotions the feed passes through unchanged.
func InterleavePromotions(posts []*models.Post, promos []models.Promotion) []FeedItem {
	items := make([]FeedItem, 0, len(posts)+len(posts)/promoInterval)
	promoIdx := 0

	for i, post := range posts {
		items = append(items, FeedItem{Type: "post", Post: post})
		if len(promos) > 0 && (i+1)%promoInterval == 0 {
			promo := promos[promoIdx%len(promos)]
			items = append(items, FeedItem{Type: "promotion", Promotion: &promo})
			promoIdx++
		}
	}
	return items
}

// FeedService assembles community feeds with promotions interleaved.
type FeedService struct {
	postRepo      repository.PostRepository
	promoRepo     repository.PromotionRepository
	communityRepo repository.CommunityRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	promoRepo repository.PromotionRepository,
	communityRepo repository.CommunityRepository,
) *FeedService {
	return &FeedService{
		postRepo:      postRepo,
		promoRepo:     promoRepo,
		communityRepo: communityRepo,
	}
}

// CommunityFeedInput identifies one page of a community's feed.
type CommunityFeedInput struct {
	CommunitySlug     string
	Page              int
	Limit             int
	Sort              string
	ViewerID          uint
	ViewerIsModerator bool
}

// CommunityFeed is one rendered feed page.
type CommunityFeed struct {
	Community *models.Community     `json:"community"`
	Items     []FeedItem            `json:"items"`
	Meta      models.PaginationMeta `json:"meta"`
}

// FeedInput identifies one page of the front-page feed, optionally scoped to
// a single community by ID.
type FeedInput struct {
	CommunityID       uint
	Page              int
	Limit             int
	Sort              string
	ViewerID          uint
	ViewerIsModerator bool
	WithPromotions    bool
}

// Feed is one rendered page of posts and interleaved promotions.
type Feed struct {
	Items []FeedItem            `json:"items"`
	Meta  models.PaginationMeta `json:"meta"`
}

// GetFeed returns one page of posts, with promotions interleaved when
// requested. A zero CommunityID spans all communities.
func (s *FeedService) GetFeed(ctx context.Context, in FeedInput) (*Feed, error) {
	posts, total, err := s.postRepo.ListByCommunity(
		ctx, in.CommunityID, in.Page, in.Limit, in.ViewerID, in.Sort, in.ViewerIsModerator,
	)
	if err != nil {
		return nil, err
	}

	var promos []models.Promotion
	if in.WithPromotions {
		promos, err = s.promoRepo.ListActive(ctx, models.PlacementFeed)
		if err != nil {
			promos = nil
		}
	}

	return &Feed{
		Items: InterleavePromotions(posts, promos),
		Meta:  models.NewPaginationMeta(in.Page, in.Limit, total),
	}, nil
}

// GetCommunityFeed returns one page of a community feed with promotions
// interleaved. The pagination meta counts posts only; promotions are
// presentation inserts and never affect paging.
func (s *FeedService) GetCommunityFeed(ctx context.Context, in CommunityFeedInput) (*CommunityFeed, error) {
	community, err := s.communityRepo.GetBySlug(ctx, in.CommunitySlug)
	if err != nil {
		return nil, err
	}

	posts, total, err := s.postRepo.ListByCommunity(
		ctx, community.ID, in.Page, in.Limit, in.ViewerID, in.Sort, in.ViewerIsModerator,
	)
	if err != nil {
		return nil, err
	}

	promos, err := s.promoRepo.ListActive(ctx, models.PlacementFeed)
	if err != nil {
		// A feed without promotions beats no feed at all.
		promos = nil
	}

	return &CommunityFeed{
		Community: community,
		Items:     InterleavePromotions(posts, promos),
		Meta:      models.NewPaginationMeta(in.Page, in.Limit, total),
	}, nil
}
