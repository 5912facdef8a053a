package service

import (
	"context"
	"fmt"
	"strings"

	"bulag/internal/models"
	"bulag/internal/repository"
	"bulag/internal/validation"
)

// PostService implements post creation, reading and editing.
type PostService struct {
	postRepo      repository.PostRepository
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	imageRepo     repository.ImageRepository
	events        EventPublisher
}

// NewPostService returns a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	imageRepo repository.ImageRepository,
	events EventPublisher,
) *PostService {
	return &PostService{
		postRepo:      postRepo,
		communityRepo: communityRepo,
		userRepo:      userRepo,
		imageRepo:     imageRepo,
		events:        events,
	}
}

// MediaInput describes one attachment on a new post, in display order.
type MediaInput struct {
	Kind      models.MediaKind `json:"kind"`
	URL       string           `json:"url"`
	ImageHash string           `json:"image_hash"`
}

type CreatePostInput struct {
	UserID      uint
	CommunityID uint
	Title       string
	Content     string
	IsAnonymous bool
	Tags        []string
	Media       []MediaInput
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

const maxMediaPerPost = 10

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, err
	}
	if len(in.Media) > maxMediaPerPost {
		return nil, models.NewValidationError(fmt.Sprintf("Too many attachments (max %d)", maxMediaPerPost))
	}

	actor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if actor.IsSuspended {
		return nil, models.NewForbiddenError("Account is suspended")
	}

	community, err := s.communityRepo.GetByID(ctx, in.CommunityID)
	if err != nil {
		return nil, err
	}
	if community.Status != models.CommunityStatusActive {
		return nil, models.NewValidationError("Community is not accepting posts")
	}

	post := &models.Post{
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		UserID:      in.UserID,
		CommunityID: in.CommunityID,
		IsAnonymous: in.IsAnonymous,
		Status:      models.PostStatusActive,
	}

	if len(in.Tags) > 0 {
		names := make([]string, 0, len(in.Tags))
		for _, name := range in.Tags {
			name = strings.ToLower(strings.TrimSpace(name))
			if name != "" {
				names = append(names, name)
			}
		}
		tags, err := s.postRepo.ResolveTags(ctx, names)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	for i, m := range in.Media {
		if m.Kind != models.MediaKindImage && m.Kind != models.MediaKindVideoLink {
			return nil, models.NewValidationError("Unknown media kind")
		}
		if m.Kind == models.MediaKindImage && m.ImageHash == "" {
			return nil, models.NewValidationError("Image attachments need an uploaded image hash")
		}
		if m.Kind == models.MediaKindVideoLink && m.URL == "" {
			return nil, models.NewValidationError("Video attachments need a URL")
		}
		url := m.URL
		if m.Kind == models.MediaKindImage {
			url = fmt.Sprintf("/media/i/%s/master.jpg", m.ImageHash)
		}
		post.Media = append(post.Media, models.MediaAttachment{
			Position:  i,
			Kind:      m.Kind,
			URL:       url,
			ImageHash: m.ImageHash,
		})
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.postRepo.GetByID(ctx, post.ID, in.UserID)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, EventPostUpdated, map[string]uint{"post_id": post.ID, "community_id": post.CommunityID})
	return created, nil
}

// GetPost returns the post for the viewer and counts the read. Deleted posts
// are gone for everyone but moderators; hidden posts only moderators see.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint, viewerIsModerator bool) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusDeleted && !viewerIsModerator {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if post.Status == models.PostStatusHidden && !viewerIsModerator && post.UserID != viewerID {
		return nil, models.NewNotFoundError("Post", postID)
	}

	if post.Status == models.PostStatusActive {
		if err := s.postRepo.IncrementViewCount(ctx, postID); err == nil {
			post.ViewCount++
		}
	}

	if err := s.enrichMediaVariants(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListUserPosts returns a page of the user's posts.
func (s *PostService) ListUserPosts(ctx context.Context, userID, viewerID uint, page, limit int) ([]*models.Post, models.PaginationMeta, error) {
	posts, total, err := s.postRepo.GetByUserID(ctx, userID, page, limit, viewerID)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}
	return posts, models.NewPaginationMeta(page, limit, total), nil
}

// SearchPosts returns a page of active posts matching the query.
func (s *PostService) SearchPosts(ctx context.Context, query string, viewerID uint, page, limit int) ([]*models.Post, models.PaginationMeta, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.PaginationMeta{}, models.NewValidationError("Search query is required")
	}
	posts, total, err := s.postRepo.Search(ctx, query, page, limit, viewerID)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}
	return posts, models.NewPaginationMeta(page, limit, total), nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusDeleted {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	actor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionEdit, post.UserID); err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(in.Title)
	post.Content = in.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	publish(ctx, s.events, EventPostUpdated, map[string]uint{"post_id": post.ID, "community_id": post.CommunityID})
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// DeletePost soft-deletes the post. Its comments stay in place behind the
// not-found status; only an admin purge removes rows.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return err
	}
	if post.Status == models.PostStatusDeleted {
		return models.NewNotFoundError("Post", in.PostID)
	}

	actor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ActionDelete, post.UserID); err != nil {
		return err
	}

	if err := s.postRepo.UpdateStatus(ctx, in.PostID, models.PostStatusDeleted); err != nil {
		return err
	}
	publish(ctx, s.events, EventPostUpdated, map[string]uint{"post_id": post.ID, "community_id": post.CommunityID})
	return nil
}

// enrichMediaVariants resolves stored image variants into serving URLs for
// the post's image attachments.
func (s *PostService) enrichMediaVariants(ctx context.Context, post *models.Post) error {
	if s.imageRepo == nil || len(post.Media) == 0 {
		return nil
	}

	hashes := make([]string, 0, len(post.Media))
	seen := map[string]struct{}{}
	for _, m := range post.Media {
		if m.ImageHash == "" {
			continue
		}
		if _, ok := seen[m.ImageHash]; ok {
			continue
		}
		seen[m.ImageHash] = struct{}{}
		hashes = append(hashes, m.ImageHash)
	}
	if len(hashes) == 0 {
		return nil
	}

	images, err := s.imageRepo.GetByHashesWithVariants(ctx, hashes)
	if err != nil {
		return err
	}
	byHash := make(map[string]*models.Image, len(images))
	for i := range images {
		byHash[images[i].Hash] = &images[i]
	}

	for i := range post.Media {
		img := byHash[post.Media[i].ImageHash]
		if img == nil || len(img.Variants) == 0 {
			continue
		}
		variants := make(map[string]string, len(img.Variants))
		for _, v := range img.Variants {
			key := fmt.Sprintf("%d_%s", v.SizePx, v.Format)
			variants[key] = fmt.Sprintf("/media/i/%s/%d.%s", img.Hash, v.SizePx, v.Format)
		}
		post.Media[i].Variants = variants
	}
	return nil
}
