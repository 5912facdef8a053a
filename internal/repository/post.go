// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"bulag/internal/cache"
	"bulag/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, page, limit int, currentUserID uint) ([]*models.Post, int64, error)
	ListByCommunity(ctx context.Context, communityID uint, page, limit int, currentUserID uint, sort string, includeHidden bool) ([]*models.Post, int64, error)
	Search(ctx context.Context, query string, page, limit int, currentUserID uint) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error
	SetPinned(ctx context.Context, id uint, pinned bool) error
	IncrementViewCount(ctx context.Context, id uint) error
	Purge(ctx context.Context, id uint) error
	ResolveTags(ctx context.Context, names []string) ([]models.Tag, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostList(ctx, post.CommunityID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	fetch := func() error {
		if err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			Preload("Community").
			Preload("Tags").
			Preload("Media").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		// Only the anonymous view is cacheable; my_vote makes it per-user otherwise.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, page, limit int, currentUserID uint) ([]*models.Post, int64, error) {
	var posts []*models.Post
	var total int64

	// Anonymous posts never surface on profile pages, even the author's own;
	// listing them together would tie the nickname to the anonymous handle.
	cond := "user_id = ? AND status <> ? AND is_anonymous = ?"

	base := r.db.WithContext(ctx).Model(&models.Post{}).
		Where(cond, userID, models.PostStatusDeleted, false)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Community").
		Preload("Tags").
		Preload("Media").
		Where(cond, userID, models.PostStatusDeleted, false).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) ListByCommunity(ctx context.Context, communityID uint, page, limit int, currentUserID uint, sort string, includeHidden bool) ([]*models.Post, int64, error) {
	var posts []*models.Post
	var total int64

	statuses := []models.PostStatus{models.PostStatusActive}
	if includeHidden {
		statuses = append(statuses, models.PostStatusHidden)
	}

	base := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("status IN ?", statuses)
	q := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Community").
		Preload("Tags").
		Preload("Media").
		Where("status IN ?", statuses)

	// Zero means the cross-community front page.
	if communityID != 0 {
		base = base.Where("community_id = ?", communityID)
		q = q.Where("community_id = ?", communityID)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	// Pinned posts lead the feed regardless of sort.
	err := r.applySort(q.Order("is_pinned DESC"), sort).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) Search(ctx context.Context, query string, page, limit int, currentUserID uint) ([]*models.Post, int64, error) {
	var posts []*models.Post
	var total int64
	like := "%" + query + "%"

	// LOWER + LIKE keeps the query portable across PostgreSQL and SQLite.
	cond := "(LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)) AND status = ?"

	base := r.db.WithContext(ctx).Model(&models.Post{}).
		Where(cond, like, like, models.PostStatusActive)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Community").
		Where(cond, like, like, models.PostStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// applySort appends the ORDER BY clause for the requested sort type.
// vote_count is a persisted column recomputed on every vote, so popular
// sorting needs no join. Popularity ties break toward the older post.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "popular":
		return db.Order("vote_count DESC, created_at ASC")
	case "views":
		return db.Order("view_count DESC, created_at DESC")
	case "oldest":
		return db.Order("created_at ASC")
	default: // "newest" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

// applyPostDetails adds subqueries to fetch the comment count and the current
// user's vote in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.status <> 'deleted') as comments_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", COALESCE((SELECT value FROM votes WHERE votes.target_type = 'post' AND votes.target_id = posts.id AND votes.user_id = ?), 0) as my_vote", currentUserID)
	}

	return db.Select(selectQuery + ", 0 as my_vote")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePostList(ctx, post.CommunityID)
	return nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("is_pinned", pinned)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) IncrementViewCount(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	return nil
}

// ResolveTags maps tag names to rows, creating any that do not exist yet.
func (r *postRepository) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		if err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Purge removes the post row along with its comments and votes. Admin-only;
// everything else goes through the soft-delete status transition.
func (r *postRepository) Purge(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("target_type = ? AND target_id IN ?", models.VoteTargetComment, commentIDs).
				Delete(&models.Vote{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.VoteTargetPost, id).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.MediaAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}
